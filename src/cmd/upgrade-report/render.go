package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/migops/upgrade-report/src/internal/runner"
	"github.com/migops/upgrade-report/src/pkg/feed"
	"github.com/migops/upgrade-report/src/pkg/template"
)

type renderOptions struct {
	feedPath      string
	templatesPath string
	outputDir     string
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the upgrade announcement from a message feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts)
		},
	}

	cmd.Flags().StringVar(&opts.feedPath, "feed", "", "Path to the message feed file (required)")
	cmd.Flags().StringVar(&opts.templatesPath, "templates-path", runner.DEFAULT_TEMPLATES_PATH, "Path to templates directory")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "./output", "Output directory for the rendered report")

	_ = cmd.MarkFlagRequired("feed")

	return cmd
}

func runRender(opts *renderOptions) error {
	fmt.Printf("📥 Loading message feed from: %s\n", opts.feedPath)
	loader := feed.NewLoader()
	rep, err := loader.Load(opts.feedPath)
	if err != nil {
		return fmt.Errorf("failed to load message feed: %w", err)
	}

	if rep.Empty() {
		fmt.Println("ℹ️  Message feed carries no messages, nothing to render")
		return nil
	}

	renderer := template.NewAnnounceRenderer()

	var rendered string
	if opts.templatesPath != runner.DEFAULT_TEMPLATES_PATH {
		// User specified a custom path, fail if templates don't exist
		fmt.Printf("📝 Using custom templates from: %s\n", opts.templatesPath)
		rendered, err = renderer.RenderWithTemplates(opts.templatesPath, rep)
		if err != nil {
			return fmt.Errorf("failed to render report with custom templates: %w", err)
		}
	} else if _, statErr := os.Stat(opts.templatesPath); statErr == nil {
		fmt.Printf("📝 Using templates from: %s\n", opts.templatesPath)
		rendered, err = renderer.RenderWithTemplates(opts.templatesPath, rep)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	} else {
		fmt.Println("📝 Using default embedded template")
		rendered, err = renderer.Render(rep)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputFile := filepath.Join(opts.outputDir, "upgrade-report.html")
	if err := os.WriteFile(outputFile, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("✅ Upgrade report written to: %s\n", outputFile)
	return nil
}
