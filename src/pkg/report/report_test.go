package report

import (
	"testing"
)

func TestReport_CategoryOrder(t *testing.T) {
	r := New("17.0")
	r.AddText("Modules removed", "module a removed", false)
	r.AddView(CategoryDisabledViews, ViewRef{ID: 1, Name: "form", Action: "base.action_config"})
	r.AddText("Modules removed", "module b removed", false)
	r.AddRecord(CategoryFiltersDashboards, RecordRef{Model: "ir.filters", ID: 4, Label: "My filter"})

	got := r.Categories()
	want := []string{"Modules removed", CategoryDisabledViews, CategoryFiltersDashboards}
	if len(got) != len(want) {
		t.Fatalf("Categories() returned %d categories, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.Name != want[i] {
			t.Errorf("category[%d] = %q, want %q", i, c.Name, want[i])
		}
	}
}

func TestReport_MessageOrder(t *testing.T) {
	r := New("17.0")
	texts := []string{"first", "second", "third"}
	for _, txt := range texts {
		r.AddText("Server Actions", txt, false)
	}

	c := r.Category("Server Actions")
	if c == nil {
		t.Fatal("Category() returned nil for a populated category")
	}
	if len(c.Messages) != len(texts) {
		t.Fatalf("got %d messages, want %d", len(c.Messages), len(texts))
	}
	for i, m := range c.Messages {
		if m.Text != texts[i] {
			t.Errorf("message[%d] = %q, want %q", i, m.Text, texts[i])
		}
	}
}

func TestReport_Empty(t *testing.T) {
	r := New("17.0")
	if !r.Empty() {
		t.Error("Empty() = false for a fresh report")
	}
	if r.Category("anything") != nil {
		t.Error("Category() should return nil for an unknown name")
	}

	r.AddText("Generic", "msg", false)
	if r.Empty() {
		t.Error("Empty() = true after Add")
	}
}

func TestReport_AddViewCopiesValue(t *testing.T) {
	r := New("17.0")
	v := ViewRef{ID: 7, Name: "kanban", Action: "crm.crm_lead_action_pipeline"}
	r.AddView(CategoryOverriddenViews, v)
	v.Name = "mutated"

	got := r.Category(CategoryOverriddenViews).Messages[0].View
	if got.Name != "kanban" {
		t.Errorf("stored view name = %q, want %q", got.Name, "kanban")
	}
}
