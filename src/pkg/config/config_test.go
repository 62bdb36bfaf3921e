package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hooks-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_LoadHooksConfig(t *testing.T) {
	path := writeConfig(t, `
hooks:
  compat:
    name: Version compatibility check
    type: command
    entry: scripts/compat-check
    args: ["--target", "17.0"]
    files: '\.py$'
    exclude: '^vendor/'
  hygiene:
    name: Trailing whitespace
    type: builtin
    check: trailing-whitespace
    fix: true
    enforcement:
      inEffectAfter: 2024-01-01T00:00:00Z
      isBlockingAfter: 2024-06-01T00:00:00Z
      override:
        comment: /override-hygiene
`)

	l := NewLoader()
	cfg, err := l.LoadHooksConfig(path)
	if err != nil {
		t.Fatalf("LoadHooksConfig() error = %v", err)
	}
	if len(cfg.Hooks) != 2 {
		t.Fatalf("got %d hooks, want 2", len(cfg.Hooks))
	}

	compat := cfg.Hooks["compat"]
	if compat.Type != HookTypeCommand {
		t.Errorf("compat.Type = %q, want %q", compat.Type, HookTypeCommand)
	}
	if len(compat.Args) != 2 || compat.Args[1] != "17.0" {
		t.Errorf("compat.Args = %v", compat.Args)
	}

	hygiene := cfg.Hooks["hygiene"]
	if !hygiene.Fix {
		t.Error("hygiene.Fix = false, want true")
	}
	if hygiene.Enforcement.Override.Comment != "/override-hygiene" {
		t.Errorf("override comment = %q", hygiene.Enforcement.Override.Comment)
	}
	wantDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if hygiene.Enforcement.IsBlockingAfter == nil || !hygiene.Enforcement.IsBlockingAfter.Equal(wantDate) {
		t.Errorf("isBlockingAfter = %v, want %v", hygiene.Enforcement.IsBlockingAfter, wantDate)
	}

	if err := l.ValidateHooksConfig(cfg); err != nil {
		t.Errorf("ValidateHooksConfig() error = %v", err)
	}
}

func TestLoader_LoadHooksConfig_MissingFile(t *testing.T) {
	l := NewLoader()
	if _, err := l.LoadHooksConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadHooksConfig() should fail for a missing file")
	}
}

func TestLoader_ValidateHooksConfig(t *testing.T) {
	inEffect := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	warning := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	blocking := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		config  *HooksConfig
		wantErr string
	}{
		{
			name:    "empty config",
			config:  &HooksConfig{},
			wantErr: "no hooks defined",
		},
		{
			name: "missing name",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {Type: HookTypeCommand, Entry: "true"},
			}},
			wantErr: "name is required",
		},
		{
			name: "missing type",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {Name: "X"},
			}},
			wantErr: "type is required",
		},
		{
			name: "unsupported type",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {Name: "X", Type: "opa"},
			}},
			wantErr: "unsupported type",
		},
		{
			name: "command without entry",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {Name: "X", Type: HookTypeCommand},
			}},
			wantErr: "entry is required",
		},
		{
			name: "rego without filePath",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {Name: "X", Type: HookTypeRego},
			}},
			wantErr: "filePath is required",
		},
		{
			name: "unknown builtin check",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {Name: "X", Type: HookTypeBuiltin, Check: "tabs"},
			}},
			wantErr: "unknown builtin check",
		},
		{
			name: "invalid files regex",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {Name: "X", Type: HookTypeCommand, Entry: "true", Files: "["},
			}},
			wantErr: "invalid files pattern",
		},
		{
			name: "enforcement dates out of order",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {
					Name: "X", Type: HookTypeCommand, Entry: "true",
					Enforcement: EnforcementConfig{InEffectAfter: &inEffect, IsWarningAfter: &warning},
				},
			}},
			wantErr: "isWarningAfter cannot be before inEffectAfter",
		},
		{
			name: "blocking date before effect date",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {
					Name: "X", Type: HookTypeCommand, Entry: "true",
					Enforcement: EnforcementConfig{InEffectAfter: &inEffect, IsBlockingAfter: &blocking},
				},
			}},
			wantErr: "isBlockingAfter cannot be before inEffectAfter",
		},
		{
			name: "valid",
			config: &HooksConfig{Hooks: map[string]HookConfig{
				"x": {Name: "X", Type: HookTypeBuiltin, Check: BuiltinEndOfFile},
			}},
		},
	}

	l := NewLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.ValidateHooksConfig(tt.config)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateHooksConfig() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateHooksConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
