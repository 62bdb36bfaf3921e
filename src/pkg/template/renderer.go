package template

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// ToolCommentSignature identifies comments created by this tool so they can
// be updated in place instead of duplicated.
const ToolCommentSignature = "<!-- upgrade-report: auto-generated comment, please do not remove -->"

// Renderer handles markdown template rendering for the check report
type Renderer struct {
	funcMap template.FuncMap
}

// NewRenderer creates a new template renderer
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: template.FuncMap{
			"gt": func(a, b int) bool { return a > b },
		},
	}
}

// RenderWithTemplates renders the check report from a template directory.
// The directory must contain check.md.tmpl (main) and fixes.md.tmpl, which
// is exposed to the main template as the named template "fixes".
func (r *Renderer) RenderWithTemplates(templateDir string, data interface{}) (string, error) {
	checkPath := filepath.Join(templateDir, "check.md.tmpl")
	fixesPath := filepath.Join(templateDir, "fixes.md.tmpl")

	if _, err := os.Stat(checkPath); err != nil {
		return "", fmt.Errorf("check template not found: %w", err)
	}
	if _, err := os.Stat(fixesPath); err != nil {
		return "", fmt.Errorf("fixes template not found: %w", err)
	}

	tmpl := template.New("").Funcs(r.funcMap)

	fixesContent, err := os.ReadFile(fixesPath)
	if err != nil {
		return "", fmt.Errorf("failed to read fixes template: %w", err)
	}
	if _, err := tmpl.New("fixes").Parse(string(fixesContent)); err != nil {
		return "", fmt.Errorf("failed to parse fixes template: %w", err)
	}

	checkContent, err := os.ReadFile(checkPath)
	if err != nil {
		return "", fmt.Errorf("failed to read check template: %w", err)
	}
	mainTmpl, err := tmpl.New("check").Parse(string(checkContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse check template: %w", err)
	}

	var buf bytes.Buffer
	if err := mainTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// Render renders a template file with the provided data
func (r *Renderer) Render(templatePath string, data interface{}) (string, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}

	return r.RenderString(string(content), data)
}

// RenderString renders a template string with the provided data
func (r *Renderer) RenderString(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("template").Funcs(r.funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// GetDefaultCheckTemplate returns the default check report template.
// This template supports the CheckReportData structure.
func (r *Renderer) GetDefaultCheckTemplate() string {
	return `# 🔍 Upgrade Source Checks: ` + "`{{.Root}}`" + `

**Timestamp:** {{.Timestamp.Format "2006-01-02 15:04:05 UTC"}}
**Files checked:** {{.FileCount}}
**Hooks:** {{.PassedHooks}}/{{.TotalHooks}} passed{{if gt .FailedHooks 0}} | ❌ {{.FailedHooks}} failed{{end}}{{if gt .ErroredHooks 0}} | 💥 {{.ErroredHooks}} errored{{end}}

---

## Hook Results

| Hook | Enforcement | Status |
|------|-------------|--------|
{{range .Details}}| {{.Name}} | {{.Level}} | {{.Status}}{{if .Overridden}} (overridden){{end}} |
{{end}}

{{range .Details}}
{{if ne .Status "PASS"}}
### {{if eq .Status "ERROR"}}💥{{else}}❌{{end}} {{.Name}}
- **Enforcement:** {{.Level}}{{if .Overridden}} (overridden){{end}}
{{if .Error}}- **Error:** {{.Error}}{{end}}
{{if .Violations}}- **Violations:**{{range .Violations}}
  - {{.}}{{end}}{{end}}
{{end}}
{{end}}

{{range .Details}}{{if .Fixes}}
### 🔧 Fixes applied by {{.Name}}
{{range .Fixes}}
<details>
<summary>{{.Path}} ({{.AddedLines}}➕/{{.DeletedLines}}➖)</summary>

` + "```diff" + `
{{.Diff}}
` + "```" + `

</details>
{{end}}
{{end}}{{end}}

---

{{if gt .BlockingFailures 0}}🛑 **{{.BlockingFailures}} blocking failure(s) — merge is blocked.**
{{else if gt .WarningFailures 0}}⚠️ **{{.WarningFailures}} warning failure(s).**
{{else}}✅ **All checks passed.**
{{end}}
_Generated by upgrade-report_
`
}
