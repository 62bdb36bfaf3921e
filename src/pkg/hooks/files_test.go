package hooks

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/migops/upgrade-report/src/pkg/config"
)

func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestSelector_ListFiles(t *testing.T) {
	root := makeTree(t, map[string]string{
		"migrations/17.0.1.0/pre-migrate.py": "pass\n",
		"scripts/compat-check":               "#!/bin/sh\n",
		"README.md":                          "readme\n",
		".git/config":                        "ignored\n",
	})

	s := NewSelector()
	files, err := s.ListFiles(root)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}

	sort.Strings(files)
	want := []string{"README.md", "migrations/17.0.1.0/pre-migrate.py", "scripts/compat-check"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("ListFiles() = %v, want %v", files, want)
	}
}

func TestSelector_Match(t *testing.T) {
	candidates := []string{
		"migrations/17.0.1.0/pre-migrate.py",
		"migrations/17.0.1.0/end-migrate.py",
		"vendor/dep/mod.py",
		"docs/index.rst",
		"scripts/compat-check",
	}

	tests := []struct {
		name string
		hook config.HookConfig
		want []string
	}{
		{
			name: "no patterns selects everything",
			hook: config.HookConfig{},
			want: candidates,
		},
		{
			name: "files regex",
			hook: config.HookConfig{Files: `\.py$`},
			want: []string{
				"migrations/17.0.1.0/pre-migrate.py",
				"migrations/17.0.1.0/end-migrate.py",
				"vendor/dep/mod.py",
			},
		},
		{
			name: "files regex with exclude",
			hook: config.HookConfig{Files: `\.py$`, Exclude: `^vendor/`},
			want: []string{
				"migrations/17.0.1.0/pre-migrate.py",
				"migrations/17.0.1.0/end-migrate.py",
			},
		},
		{
			name: "wildcard pattern on base name",
			hook: config.HookConfig{Patterns: []string{"pre-*.py"}},
			want: []string{"migrations/17.0.1.0/pre-migrate.py"},
		},
		{
			name: "wildcard pattern on full path",
			hook: config.HookConfig{Patterns: []string{"docs/*"}},
			want: []string{"docs/index.rst"},
		},
		{
			name: "regex and wildcard combine",
			hook: config.HookConfig{Files: `\.py$`, Patterns: []string{"end-*"}},
			want: []string{"migrations/17.0.1.0/end-migrate.py"},
		},
		{
			name: "nothing matches",
			hook: config.HookConfig{Files: `\.xml$`},
			want: nil,
		},
	}

	s := NewSelector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Match(tt.hook, candidates)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelector_Match_InvalidRegex(t *testing.T) {
	s := NewSelector()
	if _, err := s.Match(config.HookConfig{Files: "["}, []string{"a.py"}); err == nil {
		t.Error("Match() should fail on an invalid files regex")
	}
	if _, err := s.Match(config.HookConfig{Exclude: "["}, []string{"a.py"}); err == nil {
		t.Error("Match() should fail on an invalid exclude regex")
	}
}
