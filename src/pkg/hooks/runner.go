package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/migops/upgrade-report/src/pkg/config"
	"github.com/migops/upgrade-report/src/pkg/diff"
	"github.com/migops/upgrade-report/src/pkg/policy"
)

var logger = log.WithField("package", "hooks")

// HookRunner defines the interface for running configured hooks
type HookRunner interface {
	// Run runs all hooks of the configuration against the tree root
	Run(ctx context.Context, root, hooksPath string, cfg *config.HooksConfig) (*config.RunResult, error)
}

// Runner runs configured hooks against a source tree
type Runner struct {
	selector  *Selector
	differ    *diff.Differ
	evaluator *policy.Evaluator
}

// Ensure Runner implements HookRunner
var _ HookRunner = (*Runner)(nil)

// NewRunner creates a new hook runner
func NewRunner(evaluator *policy.Evaluator) *Runner {
	return &Runner{
		selector:  NewSelector(),
		differ:    diff.NewDiffer(),
		evaluator: evaluator,
	}
}

// Run runs all hooks of the configuration against the tree root. Hooks run
// in lexical id order so reports are stable. One hook failing or erroring
// never aborts the run.
func (r *Runner) Run(ctx context.Context, root, hooksPath string, cfg *config.HooksConfig) (*config.RunResult, error) {
	candidates, err := r.selector.ListFiles(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	result := &config.RunResult{
		TotalHooks:  len(cfg.Hooks),
		FileCount:   len(candidates),
		HookResults: make([]config.HookResult, 0, len(cfg.Hooks)),
	}

	ids := make([]string, 0, len(cfg.Hooks))
	for id := range cfg.Hooks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		hook := cfg.Hooks[id]
		hookResult := r.runHook(ctx, id, hook, root, hooksPath, candidates)
		result.HookResults = append(result.HookResults, hookResult)

		switch hookResult.Status {
		case policy.HOOK_STATUS_PASS:
			result.PassedHooks++
		case policy.HOOK_STATUS_FAIL:
			result.FailedHooks++
		case policy.HOOK_STATUS_ERROR:
			result.ErroredHooks++
		}
	}

	return result, nil
}

// runHook runs a single hook against its selected files
func (r *Runner) runHook(ctx context.Context, id string, hook config.HookConfig, root, hooksPath string, candidates []string) config.HookResult {
	result := config.HookResult{
		HookID:     id,
		HookName:   hook.Name,
		Status:     policy.HOOK_STATUS_PASS,
		Violations: []config.Violation{},
	}

	result.Level = r.evaluator.DetermineEnforcementLevel(hook.Enforcement)
	if result.Level == policy.HOOK_LEVEL_DISABLED {
		return result
	}

	files, err := r.selector.Match(hook, candidates)
	if err != nil {
		result.Status = policy.HOOK_STATUS_ERROR
		result.Error = err.Error()
		return result
	}
	if len(files) == 0 {
		logger.WithField("hook", id).Debug("no files selected, skipping")
		return result
	}

	var snapshot map[string][]byte
	if hook.Fix {
		snapshot, err = r.snapshotFiles(root, files)
		if err != nil {
			result.Status = policy.HOOK_STATUS_ERROR
			result.Error = err.Error()
			return result
		}
	}

	runCheck := func(fix bool) ([]config.Violation, error) {
		switch hook.Type {
		case config.HookTypeCommand:
			return r.runCommand(ctx, hook, root, files)
		case config.HookTypeRego:
			return r.evaluator.EvaluateFiles(ctx, hook, hooksPath, root, files)
		case config.HookTypeBuiltin:
			return runBuiltin(hook.Check, root, files, fix)
		default:
			return nil, fmt.Errorf("unsupported hook type %q", hook.Type)
		}
	}

	violations, err := runCheck(hook.Fix)
	if err != nil {
		result.Status = policy.HOOK_STATUS_ERROR
		result.Error = err.Error()
		return result
	}
	result.Violations = violations

	if hook.Fix {
		fixes, err := r.collectFixes(root, snapshot, files)
		if err != nil {
			result.Status = policy.HOOK_STATUS_ERROR
			result.Error = err.Error()
			return result
		}
		result.Fixes = fixes
	}

	if len(result.Violations) > 0 {
		result.Status = policy.HOOK_STATUS_FAIL
		// A fix hook passes when a re-check after its rewrites comes back clean
		if hook.Fix {
			remaining, err := runCheck(false)
			if err != nil {
				result.Status = policy.HOOK_STATUS_ERROR
				result.Error = err.Error()
				return result
			}
			if len(remaining) == 0 {
				result.Status = policy.HOOK_STATUS_PASS
			}
		}
	}

	return result
}

// runCommand invokes an external hook with the selected file paths appended.
// Exit 0 is a pass; a non-zero exit turns each non-empty output line into a
// violation; anything else is an execution error.
func (r *Runner) runCommand(ctx context.Context, hook config.HookConfig, root string, files []string) ([]config.Violation, error) {
	args := append(append([]string{}, hook.Args...), files...)
	cmd := exec.CommandContext(ctx, hook.Entry, args...)
	cmd.Dir = root

	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil, nil
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("hook cancelled: %w", ctx.Err())
	}
	if _, ok := err.(*exec.ExitError); !ok {
		return nil, fmt.Errorf("failed to run %s: %w", hook.Entry, err)
	}

	var violations []config.Violation
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		violations = append(violations, config.Violation{Message: line})
	}
	if len(violations) == 0 {
		violations = append(violations, config.Violation{
			Message: fmt.Sprintf("%s exited non-zero without output", hook.Entry),
		})
	}

	return violations, nil
}

// snapshotFiles reads the current content of the selected files
func (r *Runner) snapshotFiles(root string, files []string) (map[string][]byte, error) {
	snapshot := make(map[string][]byte, len(files))
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(root, file))
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot %s: %w", file, err)
		}
		snapshot[file] = content
	}
	return snapshot, nil
}

// collectFixes diffs the snapshot against the current content and returns a
// FileFix for every file the hook rewrote
func (r *Runner) collectFixes(root string, snapshot map[string][]byte, files []string) ([]config.FileFix, error) {
	var fixes []config.FileFix

	for _, file := range files {
		before := snapshot[file]
		after, err := os.ReadFile(filepath.Join(root, file))
		if err != nil {
			return nil, fmt.Errorf("failed to re-read %s: %w", file, err)
		}
		if !r.differ.HasChanges(before, after) {
			continue
		}

		diffContent, err := r.differ.Diff(before, after)
		if err != nil {
			return nil, fmt.Errorf("failed to diff %s: %w", file, err)
		}

		added, deleted, _ := diff.CalcLineChangesFromDiffContent(diffContent)
		fixes = append(fixes, config.FileFix{
			Path:         file,
			Diff:         diffContent,
			AddedLines:   added,
			DeletedLines: deleted,
		})
	}

	return fixes, nil
}
