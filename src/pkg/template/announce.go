package template

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/migops/upgrade-report/src/pkg/report"
)

// AnnounceRenderer renders the upgrade report payload into HTML markup
// suitable for direct inclusion in the web client.
type AnnounceRenderer struct {
	funcMap template.FuncMap
}

// NewAnnounceRenderer creates a new announce renderer
func NewAnnounceRenderer() *AnnounceRenderer {
	return &AnnounceRenderer{
		funcMap: template.FuncMap{
			// raw inserts pre-built markup unescaped. Only messages
			// explicitly flagged raw by the producer go through it.
			"raw": func(s string) template.HTML { return template.HTML(s) },
			"viewHref": func(action string, viewID int64) string {
				return fmt.Sprintf("/web#action=%s&view_id=%d", action, viewID)
			},
			"recordHref": func(model string, id int64) string {
				return fmt.Sprintf("/web#model=%s&id=%d&view_type=form", model, id)
			},
		},
	}
}

// Render renders the report with the default embedded template.
func (r *AnnounceRenderer) Render(rep *report.Report) (string, error) {
	return r.RenderString(r.GetDefaultAnnounceTemplate(), rep)
}

// RenderWithTemplates renders the report from a template directory. The
// directory must contain announce.html.tmpl.
func (r *AnnounceRenderer) RenderWithTemplates(templateDir string, rep *report.Report) (string, error) {
	announcePath := filepath.Join(templateDir, "announce.html.tmpl")
	content, err := os.ReadFile(announcePath)
	if err != nil {
		return "", fmt.Errorf("announce template not found: %w", err)
	}

	return r.RenderString(string(content), rep)
}

// RenderString renders a template string against the report.
func (r *AnnounceRenderer) RenderString(templateStr string, rep *report.Report) (string, error) {
	tmpl, err := template.New("announce").Funcs(r.funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse announce template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, rep); err != nil {
		return "", fmt.Errorf("failed to execute announce template: %w", err)
	}

	return buf.String(), nil
}

// GetDefaultAnnounceTemplate returns the default announce template.
//
// Three rendering branches, selected by category name: view references for
// "Disabled views" and "Overridden views" (a second link when a backup copy
// exists), record references for "Filters/Dashboards", plain or raw text for
// everything else.
func (r *AnnounceRenderer) GetDefaultAnnounceTemplate() string {
	return `<div class="o_upgrade_report">
  <h2>Upgrade report: version {{.Version}}</h2>
{{- range .Categories}}
  <h4>{{.Name}}</h4>
  <ul>
{{- if or (eq .Name "Disabled views") (eq .Name "Overridden views")}}
{{- range .Messages}}
    <li><a href="{{viewHref .View.Action .View.ID}}">{{.View.Name}}</a>{{if .View.CopyID}} (backup copy: <a href="{{viewHref .View.Action .View.CopyID}}">{{.View.Name}}</a>){{end}}</li>
{{- end}}
{{- else if eq .Name "Filters/Dashboards"}}
{{- range .Messages}}
    <li><a href="{{recordHref .Record.Model .Record.ID}}">{{.Record.Label}}</a></li>
{{- end}}
{{- else}}
{{- range .Messages}}
    <li>{{if .Raw}}{{raw .Text}}{{else}}{{.Text}}{{end}}</li>
{{- end}}
{{- end}}
  </ul>
{{- end}}
</div>
`
}
