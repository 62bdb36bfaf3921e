package runner

type Options struct {
	// Run mode
	RunMode string // "github" or "local"

	// Common options
	Root          string
	HooksPath     string
	TemplatesPath string
	OutputDir     string

	// GitHub mode options
	GhRepo     string
	GhPrNumber int

	// Export options
	EnableExportReport bool
	EnableTrace        bool
}
