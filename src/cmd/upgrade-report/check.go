package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/migops/upgrade-report/src/internal/runner"
	"github.com/migops/upgrade-report/src/pkg/github"
	"github.com/migops/upgrade-report/src/pkg/hooks"
	"github.com/migops/upgrade-report/src/pkg/policy"
	"github.com/migops/upgrade-report/src/pkg/template"
	"github.com/migops/upgrade-report/src/pkg/trace"
)

const (
	RUN_MODE_GITHUB = "github"
	RUN_MODE_LOCAL  = "local"
)

func newCheckCmd() *cobra.Command {
	opts := &runner.Options{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run configured hooks against an upgrade source tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts)
		},
	}

	// Run mode
	cmd.Flags().StringVar(&opts.RunMode, "run-mode", RUN_MODE_LOCAL, "Run mode: github or local")

	// Common flags
	cmd.Flags().StringVar(&opts.Root, "root", ".", "Path to the source tree to check")
	cmd.Flags().StringVar(&opts.HooksPath, "hooks-path", "./hooks", "Path to hooks directory (contains hooks-config.yaml)")
	cmd.Flags().StringVar(&opts.TemplatesPath, "templates-path", runner.DEFAULT_TEMPLATES_PATH, "Path to templates directory")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "./output", "Output directory for reports")

	// GitHub mode flags
	cmd.Flags().StringVar(&opts.GhRepo, "gh-repo", "", "GitHub repository (e.g., org/repo) [github mode]")
	cmd.Flags().IntVar(&opts.GhPrNumber, "gh-pr-number", 0, "GitHub PR number [github mode]")

	// Export flags
	cmd.Flags().BoolVar(&opts.EnableExportReport, "enable-export-report", false, "Export report.json to the output directory")
	cmd.Flags().BoolVar(&opts.EnableTrace, "enable-trace", false, "Record spans and export performance-report.json")

	return cmd
}

// Do all initialization steps here:
// 1. Initialize the hook runner, evaluator, reporter, renderer
// 2. Initialize the runner instance for the run mode
// //  a. The GitHub runner also fetches PR info and comments
// 3. Load and validate the hooks configuration
// 4. Return the runner instance
func initializeCheck(ctx context.Context, opts *runner.Options) (runner.RunnerInterface, error) {
	evaluator := policy.NewEvaluator()
	hookRunner := hooks.NewRunner(evaluator)
	reporter := policy.NewReporter()
	renderer := template.NewRenderer()

	var instance runner.RunnerInterface
	var err error
	switch opts.RunMode {
	case RUN_MODE_GITHUB:
		var ghClient *github.Client
		ghClient, err = github.NewClient()
		if err != nil {
			return nil, fmt.Errorf("GitHub authentication failed: %w", err)
		}
		instance, err = runner.NewRunnerGitHub(ctx, opts, hookRunner, evaluator, reporter, renderer, ghClient)
	case RUN_MODE_LOCAL:
		instance, err = runner.NewRunnerLocal(ctx, opts, hookRunner, evaluator, reporter, renderer)
	default:
		return nil, fmt.Errorf("invalid run mode: %s", opts.RunMode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	fmt.Println("📋 Loading hooks configuration...")
	if err := instance.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize runner: %w", err)
	}

	return instance, nil
}

func runCheck(ctx context.Context, opts *runner.Options) error {
	if err := validateCheckOptions(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	shutdownTracer, err := trace.InitTracer("upgrade-report", opts.EnableTrace, opts.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer shutdownTracer()

	instance, err := initializeCheck(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	fmt.Printf("═══════════════════════════════════════════════════\n")
	fmt.Printf("🔍 Checking: %s\n", opts.Root)
	fmt.Printf("═══════════════════════════════════════════════════\n\n")

	enforcement, err := instance.Process()
	if err != nil {
		return err
	}

	fmt.Printf("   %s\n\n", enforcement.Summary)

	if enforcement.ShouldBlock {
		return fmt.Errorf("blocking hook failures detected")
	}
	if enforcement.ShouldWarn {
		return fmt.Errorf("warning hook failures detected")
	}

	fmt.Println("✅ All checks passed!")
	return nil
}

func validateCheckOptions(opts *runner.Options) error {
	if opts.Root == "" {
		return fmt.Errorf("root is required")
	}
	if opts.HooksPath == "" {
		return fmt.Errorf("hooks-path is required")
	}

	// Validate run mode
	if opts.RunMode != RUN_MODE_GITHUB && opts.RunMode != RUN_MODE_LOCAL {
		return fmt.Errorf("run-mode must be 'github' or 'local', got: %s", opts.RunMode)
	}

	// Validate mode-specific options
	if opts.RunMode == RUN_MODE_GITHUB {
		if opts.GhRepo == "" {
			return fmt.Errorf("github mode requires --gh-repo")
		}
		if opts.GhPrNumber == 0 {
			return fmt.Errorf("github mode requires --gh-pr-number")
		}
	}

	return nil
}
