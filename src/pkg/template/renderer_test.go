package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/migops/upgrade-report/src/pkg/config"
)

func sampleCheckData() config.CheckReportData {
	return config.CheckReportData{
		Root:             "/repo/migrations",
		Timestamp:        time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		FileCount:        12,
		TotalHooks:       3,
		PassedHooks:      1,
		FailedHooks:      1,
		ErroredHooks:     1,
		BlockingFailures: 1,
		Details: []config.HookDetail{
			{ID: "compat", Name: "Version compatibility check", Status: "FAIL", Level: "BLOCK",
				Violations: []string{"util.remove_view is not available before 13.0"}},
			{ID: "hygiene", Name: "Trailing whitespace", Status: "PASS", Level: "WARNING",
				Fixes: []config.FileFix{{Path: "migrations/17.0.1.0/pre-migrate.py", Diff: "-a \n+a", AddedLines: 1, DeletedLines: 1}}},
			{ID: "imports", Name: "Import restrictions", Status: "ERROR", Level: "RECOMMEND",
				Error: "failed to prepare policy query"},
		},
	}
}

func TestRenderer_DefaultCheckTemplate(t *testing.T) {
	r := NewRenderer()
	out, err := r.RenderString(r.GetDefaultCheckTemplate(), sampleCheckData())
	if err != nil {
		t.Fatalf("RenderString() error = %v", err)
	}

	for _, want := range []string{
		"1/3 passed",
		"❌ 1 failed",
		"💥 1 errored",
		"util.remove_view is not available before 13.0",
		"failed to prepare policy query",
		"Fixes applied by Trailing whitespace",
		"migrations/17.0.1.0/pre-migrate.py",
		"merge is blocked",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("default check report missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestRenderer_DefaultCheckTemplate_AllPassed(t *testing.T) {
	data := config.CheckReportData{
		Root:        ".",
		Timestamp:   time.Now().UTC(),
		TotalHooks:  2,
		PassedHooks: 2,
		Details: []config.HookDetail{
			{ID: "a", Name: "A", Status: "PASS", Level: "BLOCK"},
			{ID: "b", Name: "B", Status: "PASS", Level: "WARNING"},
		},
	}

	r := NewRenderer()
	out, err := r.RenderString(r.GetDefaultCheckTemplate(), data)
	if err != nil {
		t.Fatalf("RenderString() error = %v", err)
	}
	if !strings.Contains(out, "All checks passed") {
		t.Errorf("report should state that all checks passed, got:\n%s", out)
	}
	if strings.Contains(out, "merge is blocked") {
		t.Errorf("clean report must not claim a blocked merge, got:\n%s", out)
	}
}

func TestRenderer_RenderWithTemplates(t *testing.T) {
	dir := t.TempDir()
	check := `root={{.Root}} {{template "fixes" .}}`
	fixes := `fixes:{{range .Details}}{{range .Fixes}}{{.Path}}{{end}}{{end}}`
	if err := os.WriteFile(filepath.Join(dir, "check.md.tmpl"), []byte(check), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fixes.md.tmpl"), []byte(fixes), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRenderer()
	out, err := r.RenderWithTemplates(dir, sampleCheckData())
	if err != nil {
		t.Fatalf("RenderWithTemplates() error = %v", err)
	}
	if !strings.Contains(out, "root=/repo/migrations") {
		t.Errorf("main template not rendered: %q", out)
	}
	if !strings.Contains(out, "migrations/17.0.1.0/pre-migrate.py") {
		t.Errorf("named fixes template not rendered: %q", out)
	}
}

func TestRenderer_RenderWithTemplates_MissingFiles(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderWithTemplates(t.TempDir(), sampleCheckData()); err == nil {
		t.Error("RenderWithTemplates() should fail when templates are missing")
	}
}

func TestRenderer_RenderString_ParseError(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderString("{{.Unclosed", nil); err == nil {
		t.Error("RenderString() should fail on a malformed template")
	}
}
