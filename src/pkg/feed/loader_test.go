package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/migops/upgrade-report/src/pkg/report"
)

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upgrade-messages.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeFeed(t, `
version: "17.0"
messages:
  - category: Disabled views
    view:
      id: 11
      name: partner form
      copyId: 12
      action: base.action_partner_form
  - category: Filters/Dashboards
    record:
      model: ir.filters
      id: 42
      label: My pipeline
  - category: Modules removed
    text: "module <b>stock_barcode</b> removed"
    raw: true
  - category: Disabled views
    view:
      id: 13
      name: partner kanban
      action: base.action_partner_form
`)

	l := NewLoader()
	rep, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if rep.Version != "17.0" {
		t.Errorf("Version = %q, want 17.0", rep.Version)
	}

	cats := rep.Categories()
	wantOrder := []string{report.CategoryDisabledViews, report.CategoryFiltersDashboards, "Modules removed"}
	if len(cats) != len(wantOrder) {
		t.Fatalf("got %d categories, want %d", len(cats), len(wantOrder))
	}
	for i, c := range cats {
		if c.Name != wantOrder[i] {
			t.Errorf("category[%d] = %q, want %q", i, c.Name, wantOrder[i])
		}
	}

	views := rep.Category(report.CategoryDisabledViews).Messages
	if len(views) != 2 {
		t.Fatalf("got %d disabled view messages, want 2", len(views))
	}
	if views[0].View.CopyID != 12 {
		t.Errorf("first view CopyID = %d, want 12", views[0].View.CopyID)
	}
	if views[1].View.CopyID != 0 {
		t.Errorf("second view CopyID = %d, want 0", views[1].View.CopyID)
	}

	rec := rep.Category(report.CategoryFiltersDashboards).Messages[0].Record
	if rec.Model != "ir.filters" || rec.ID != 42 || rec.Label != "My pipeline" {
		t.Errorf("record = %+v", rec)
	}

	text := rep.Category("Modules removed").Messages[0]
	if !text.Raw {
		t.Error("raw flag lost")
	}
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing version",
			content: "messages: []\n",
			wantErr: "no version",
		},
		{
			name: "missing category",
			content: `
version: "17.0"
messages:
  - text: orphan
`,
			wantErr: "category is required",
		},
		{
			name: "empty body",
			content: `
version: "17.0"
messages:
  - category: Modules removed
`,
			wantErr: "message 0: one of view, record or text is required",
		},
		{
			name:    "not yaml",
			content: "{{{",
			wantErr: "failed to parse",
		},
	}

	l := NewLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Load(writeFeed(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	l := NewLoader()
	if _, err := l.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
