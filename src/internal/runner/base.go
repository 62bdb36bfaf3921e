package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/migops/upgrade-report/src/pkg/config"
	"github.com/migops/upgrade-report/src/pkg/hooks"
	"github.com/migops/upgrade-report/src/pkg/policy"
	"github.com/migops/upgrade-report/src/pkg/template"
	"github.com/migops/upgrade-report/src/pkg/trace"
)

var logger *log.Entry = log.New().WithFields(log.Fields{
	"package": "runner",
})

// DEFAULT_TEMPLATES_PATH is the templates directory probed when the user did
// not pass an explicit one.
const DEFAULT_TEMPLATES_PATH = "./templates"

type RunnerBase struct {
	Context context.Context
	Options *Options

	RunMode string

	Hooks     *hooks.Runner
	Evaluator *policy.Evaluator
	Reporter  *policy.Reporter
	Renderer  *template.Renderer

	Config *config.HooksConfig

	Instance RunnerInterface
}

// make RunnerBase implement RunnerInterface
var _ RunnerInterface = (*RunnerBase)(nil)

func NewRunnerBase(
	ctx context.Context,
	options *Options,
	hookRunner *hooks.Runner,
	evaluator *policy.Evaluator,
	reporter *policy.Reporter,
	renderer *template.Renderer,
) (*RunnerBase, error) {
	runner := &RunnerBase{
		Context:   ctx,
		Options:   options,
		RunMode:   options.RunMode,
		Hooks:     hookRunner,
		Evaluator: evaluator,
		Reporter:  reporter,
		Renderer:  renderer,
	}
	return runner, nil
}

func (r *RunnerBase) Initialize() error {
	logger.Info("Initializing runner: starting...")

	// if any is nil, return error
	if r.Hooks == nil || r.Evaluator == nil || r.Reporter == nil || r.Renderer == nil {
		return fmt.Errorf("hook runner, evaluator, reporter, and renderer are required")
	}

	logger.Info("Initialize runner: Evaluator: Loading and validating hooks configuration")
	configPath := filepath.Join(r.Options.HooksPath, policy.HOOKS_CONFIG_FILENAME)
	cfg, err := r.Evaluator.LoadAndValidate(configPath, r.Options.HooksPath)
	if err != nil {
		return fmt.Errorf("failed to load hooks config: %w", err)
	}
	r.Config = cfg

	logger.Info("Initialize runner: done.")
	return nil
}

// Comments returns no comments. Mode-specific runners that can see PR
// comments override this.
func (r *RunnerBase) Comments() []*config.Comment {
	return nil
}

func (r *RunnerBase) Process() (*config.EnforcementResult, error) {
	logger.Info("Process: starting...")

	instance := r.Instance
	if instance == nil {
		instance = r
	}

	ctx, span := trace.StartSpan(r.Context, "run-hooks")
	result, err := r.Hooks.Run(ctx, r.Options.Root, r.Options.HooksPath, r.Config)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("failed to run hooks: %w", err)
	}
	logger.WithField("results", result).Debug("Ran hooks")

	overrides := r.Evaluator.CheckOverrides(instance.Comments(), r.Config)
	r.Evaluator.ApplyOverrides(result, overrides)
	enforcement := r.Evaluator.Enforce(result, overrides)

	data := r.Reporter.GenerateReport(result, r.Config, r.Options.Root)

	_, span = trace.StartSpan(r.Context, "render-report")
	rendered, err := r.renderReport(data)
	span.End()
	if err != nil {
		return nil, err
	}

	// Always prepend the marker so both modes produce an updatable comment body
	final := template.ToolCommentSignature + "\n\n" + rendered

	_, span = trace.StartSpan(r.Context, "output")
	err = instance.Output(final, data)
	span.End()
	if err != nil {
		return nil, err
	}

	logger.Info("Process: done.")
	return enforcement, nil
}

// renderReport renders the check report, preferring an explicit templates
// directory, then the default directory when present, then the embedded
// template.
func (r *RunnerBase) renderReport(data *config.CheckReportData) (string, error) {
	if r.Options.TemplatesPath != DEFAULT_TEMPLATES_PATH {
		// User specified a custom path, fail if templates don't exist
		logger.WithField("templatesPath", r.Options.TemplatesPath).Info("Using custom templates")
		rendered, err := r.Renderer.RenderWithTemplates(r.Options.TemplatesPath, data)
		if err != nil {
			return "", fmt.Errorf("failed to render report with custom templates: %w", err)
		}
		return rendered, nil
	}

	if _, err := os.Stat(r.Options.TemplatesPath); err == nil {
		logger.WithField("templatesPath", r.Options.TemplatesPath).Info("Using templates directory")
		rendered, err := r.Renderer.RenderWithTemplates(r.Options.TemplatesPath, data)
		if err != nil {
			return "", fmt.Errorf("failed to render report: %w", err)
		}
		return rendered, nil
	}

	logger.Info("Using default embedded template")
	rendered, err := r.Renderer.RenderString(r.Renderer.GetDefaultCheckTemplate(), data)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return rendered, nil
}

// Output writes the rendered report to the output directory.
func (r *RunnerBase) Output(rendered string, data *config.CheckReportData) error {
	logger.Info("Output: starting...")

	if err := os.MkdirAll(r.Options.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputFile := filepath.Join(r.Options.OutputDir, "check-report.md")
	if err := os.WriteFile(outputFile, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.WithField("filePath", outputFile).Info("Written check report to file")

	if err := r.outputReportJson(data); err != nil {
		return err
	}

	logger.Info("Output: done.")
	return nil
}

// Exporting report json file to output directory if enabled
func (r *RunnerBase) outputReportJson(data *config.CheckReportData) error {
	if !r.Options.EnableExportReport {
		logger.Info("OutputJson: option was disabled")
		return nil
	}
	logger.Info("OutputJson: starting...")

	resultsJson, err := json.Marshal(data)
	if err != nil {
		return err
	}
	filePath := filepath.Join(r.Options.OutputDir, "report.json")
	if err := os.WriteFile(filePath, resultsJson, 0644); err != nil {
		logger.WithField("filePath", filePath).WithField("error", err).Error("Failed to write report data to file")
		return err
	}
	logger.WithField("filePath", filePath).Info("Written report data to file")
	return nil
}
