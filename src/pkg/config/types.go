package config

import "time"

// Hook types.
const (
	HookTypeCommand = "command"
	HookTypeRego    = "rego"
	HookTypeBuiltin = "builtin"
)

// Builtin check names.
const (
	BuiltinTrailingWhitespace = "trailing-whitespace"
	BuiltinEndOfFile          = "end-of-file"
)

// HooksConfig represents the complete hooks configuration
type HooksConfig struct {
	Hooks map[string]HookConfig `yaml:"hooks"`
}

// HookConfig represents a single hook configuration
type HookConfig struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Type        string            `yaml:"type"` // "command", "rego" or "builtin"
	Entry       string            `yaml:"entry,omitempty"`
	Args        []string          `yaml:"args,omitempty"`
	FilePath    string            `yaml:"filePath,omitempty"`
	Check       string            `yaml:"check,omitempty"`
	Files       string            `yaml:"files,omitempty"`    // regex over repo-relative paths
	Exclude     string            `yaml:"exclude,omitempty"`  // regex over repo-relative paths
	Patterns    []string          `yaml:"patterns,omitempty"` // wildcard patterns, any match includes
	Fix         bool              `yaml:"fix,omitempty"`
	Enforcement EnforcementConfig `yaml:"enforcement"`
}

// EnforcementConfig defines when and how a hook should be enforced
type EnforcementConfig struct {
	InEffectAfter   *time.Time     `yaml:"inEffectAfter,omitempty"`
	IsWarningAfter  *time.Time     `yaml:"isWarningAfter,omitempty"`
	IsBlockingAfter *time.Time     `yaml:"isBlockingAfter,omitempty"`
	Override        OverrideConfig `yaml:"override"`
}

// OverrideConfig defines how a hook can be overridden
type OverrideConfig struct {
	Comment string `yaml:"comment"` // e.g., "/override-compat"
}

// RunResult represents the result of running all hooks
type RunResult struct {
	TotalHooks   int
	PassedHooks  int
	FailedHooks  int
	ErroredHooks int
	FileCount    int
	HookResults  []HookResult
}

// HookResult represents the result of a single hook run
type HookResult struct {
	HookID     string
	HookName   string
	Status     string // "PASS", "FAIL", "ERROR"
	Level      string // "RECOMMEND", "WARNING", "BLOCK", "DISABLED"
	Overridden bool
	Error      string
	Violations []Violation
	Fixes      []FileFix
}

// Violation represents a single hook violation
type Violation struct {
	Message string
	File    string
}

// FileFix represents a file rewritten by a fix-mode hook
type FileFix struct {
	Path         string
	Diff         string
	AddedLines   int
	DeletedLines int
}

// EnforcementResult represents the enforcement decision
type EnforcementResult struct {
	ShouldBlock bool
	ShouldWarn  bool
	Summary     string
}

// CheckReportData represents check results shaped for template rendering
type CheckReportData struct {
	Root              string
	Timestamp         time.Time
	FileCount         int
	TotalHooks        int
	PassedHooks       int
	FailedHooks       int
	ErroredHooks      int
	BlockingFailures  int
	WarningFailures   int
	RecommendFailures int
	Details           []HookDetail
}

// HookDetail represents a single hook detail for reporting
type HookDetail struct {
	ID          string
	Name        string
	Description string
	Status      string
	Level       string
	Overridden  bool
	Error       string
	Violations  []string
	Fixes       []FileFix
}

// PullRequest represents GitHub PR information
type PullRequest struct {
	Number  int
	BaseRef string
	BaseSHA string
	HeadRef string
	HeadSHA string
}

// Comment represents a GitHub comment
type Comment struct {
	ID   int64
	Body string
}
