package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/open-policy-agent/opa/rego"

	"github.com/migops/upgrade-report/src/pkg/config"
)

const (
	HOOK_STATUS_PASS  = "PASS"
	HOOK_STATUS_FAIL  = "FAIL"
	HOOK_STATUS_ERROR = "ERROR"

	HOOK_LEVEL_DISABLED  = "DISABLED"
	HOOK_LEVEL_RECOMMEND = "RECOMMEND"
	HOOK_LEVEL_WARNING   = "WARNING"
	HOOK_LEVEL_BLOCK     = "BLOCK"
)

// HOOKS_CONFIG_FILENAME is the default hooks configuration file name.
const HOOKS_CONFIG_FILENAME = "hooks-config.yaml"

// regoQuery is the rule set evaluated for each file of a rego hook.
const regoQuery = "data.precommit.deny"

// HookEvaluator defines the interface for hook policy operations
type HookEvaluator interface {
	// LoadAndValidate loads and validates the hooks configuration
	LoadAndValidate(configPath, hooksPath string) (*config.HooksConfig, error)
	// EvaluateFiles evaluates a rego hook against the given files
	EvaluateFiles(ctx context.Context, hook config.HookConfig, hooksPath, root string, files []string) ([]config.Violation, error)
	// DetermineEnforcementLevel determines the current enforcement level based on time
	DetermineEnforcementLevel(enforcement config.EnforcementConfig) string
	// CheckOverrides checks for hook override commands in PR comments
	CheckOverrides(comments []*config.Comment, cfg *config.HooksConfig) map[string]bool
	// ApplyOverrides applies hook overrides to the run result
	ApplyOverrides(result *config.RunResult, overrides map[string]bool)
	// Enforce determines if the run result should block the merge
	Enforce(result *config.RunResult, overrides map[string]bool) *config.EnforcementResult
}

// Evaluator handles rego hook evaluation and enforcement decisions
type Evaluator struct {
	loader *config.Loader
}

// Ensure Evaluator implements HookEvaluator
var _ HookEvaluator = (*Evaluator)(nil)

// NewEvaluator creates a new hook evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{
		loader: config.NewLoader(),
	}
}

// LoadAndValidate loads and validates the hooks configuration. hooksPath is
// the directory rego hook filePaths are resolved against.
func (e *Evaluator) LoadAndValidate(configPath, hooksPath string) (*config.HooksConfig, error) {
	cfg, err := e.loader.LoadHooksConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := e.loader.ValidateHooksConfig(cfg); err != nil {
		return nil, err
	}

	// Validate rego hook files exist
	for id, hook := range cfg.Hooks {
		if hook.Type != config.HookTypeRego {
			continue
		}
		policyPath := filepath.Join(hooksPath, hook.FilePath)
		if _, err := os.Stat(policyPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("hook %s: policy file not found: %s", id, policyPath)
		}
		if !strings.HasSuffix(policyPath, ".rego") {
			return nil, fmt.Errorf("hook %s: unsupported policy file extension (must be .rego)", id)
		}
	}

	return cfg, nil
}

// EvaluateFiles evaluates a rego hook against the given files. The policy is
// prepared once and queried per file with the file path and content as input.
func (e *Evaluator) EvaluateFiles(ctx context.Context, hook config.HookConfig, hooksPath, root string, files []string) ([]config.Violation, error) {
	policyContent, err := os.ReadFile(filepath.Join(hooksPath, hook.FilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	query, err := rego.New(
		rego.Query(regoQuery),
		rego.Module("hook.rego", string(policyContent)),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare policy query: %w", err)
	}

	var violations []config.Violation
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(root, file))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		input := map[string]interface{}{
			"file": map[string]interface{}{
				"path":    file,
				"content": string(content),
			},
		}

		results, err := query.Eval(ctx, rego.EvalInput(input))
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate policy for %s: %w", file, err)
		}

		for _, msg := range extractDenyMessages(results) {
			violations = append(violations, config.Violation{
				Message: msg,
				File:    file,
			})
		}
	}

	return violations, nil
}

// extractDenyMessages pulls the string deny messages out of an eval result
func extractDenyMessages(results rego.ResultSet) []string {
	var messages []string
	if len(results) > 0 && len(results[0].Expressions) > 0 {
		if denySet, ok := results[0].Expressions[0].Value.([]interface{}); ok {
			for _, v := range denySet {
				if msg, ok := v.(string); ok {
					messages = append(messages, msg)
				}
			}
		}
	}
	return messages
}

// DetermineEnforcementLevel determines the current enforcement level based on time
func (e *Evaluator) DetermineEnforcementLevel(enforcement config.EnforcementConfig) string {
	now := time.Now()

	// Check if hook is in effect
	if enforcement.InEffectAfter != nil && now.Before(*enforcement.InEffectAfter) {
		return HOOK_LEVEL_DISABLED
	}

	// Check blocking level
	if enforcement.IsBlockingAfter != nil && !now.Before(*enforcement.IsBlockingAfter) {
		return HOOK_LEVEL_BLOCK
	}

	// Check warning level
	if enforcement.IsWarningAfter != nil && !now.Before(*enforcement.IsWarningAfter) {
		return HOOK_LEVEL_WARNING
	}

	// Any configured window date means the hook is in a staged rollout;
	// until its warning and blocking dates are reached it stays advisory
	if enforcement.InEffectAfter != nil || enforcement.IsWarningAfter != nil || enforcement.IsBlockingAfter != nil {
		return HOOK_LEVEL_RECOMMEND
	}

	// No rollout window at all: always blocking
	return HOOK_LEVEL_BLOCK
}

// CheckOverrides checks PR comments for hook override commands
func (e *Evaluator) CheckOverrides(comments []*config.Comment, cfg *config.HooksConfig) map[string]bool {
	overrides := make(map[string]bool)

	for hookID, hook := range cfg.Hooks {
		if hook.Enforcement.Override.Comment == "" {
			continue
		}

		for _, comment := range comments {
			if strings.Contains(comment.Body, hook.Enforcement.Override.Comment) {
				overrides[hookID] = true
				break
			}
		}
	}

	return overrides
}

// ApplyOverrides applies overrides to hook results
func (e *Evaluator) ApplyOverrides(result *config.RunResult, overrides map[string]bool) {
	for i := range result.HookResults {
		if overrides[result.HookResults[i].HookID] {
			result.HookResults[i].Overridden = true
		}
	}
}

// Enforce determines the enforcement action based on results and overrides
func (e *Evaluator) Enforce(result *config.RunResult, overrides map[string]bool) *config.EnforcementResult {
	enforcement := &config.EnforcementResult{}

	blockingCount := 0
	warningCount := 0

	for _, hr := range result.HookResults {
		if hr.Status != HOOK_STATUS_FAIL {
			continue
		}

		if overrides[hr.HookID] {
			continue
		}

		switch hr.Level {
		case HOOK_LEVEL_BLOCK:
			blockingCount++
			enforcement.ShouldBlock = true
		case HOOK_LEVEL_WARNING:
			warningCount++
			enforcement.ShouldWarn = true
		}
	}

	if blockingCount > 0 {
		enforcement.Summary = fmt.Sprintf("%d blocking hook failure(s)", blockingCount)
	} else if warningCount > 0 {
		enforcement.Summary = fmt.Sprintf("%d warning hook failure(s)", warningCount)
	} else {
		enforcement.Summary = "All checks passed"
	}

	return enforcement
}
