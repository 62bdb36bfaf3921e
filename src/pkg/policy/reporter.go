package policy

import (
	"time"

	"github.com/migops/upgrade-report/src/pkg/config"
)

// Reporter shapes hook run results for template rendering
type Reporter struct{}

// NewReporter creates a new reporter
func NewReporter() *Reporter {
	return &Reporter{}
}

// GenerateReport generates check report data from a run result
func (r *Reporter) GenerateReport(result *config.RunResult, cfg *config.HooksConfig, root string) *config.CheckReportData {
	report := &config.CheckReportData{
		Root:         root,
		Timestamp:    time.Now().UTC(),
		FileCount:    result.FileCount,
		TotalHooks:   result.TotalHooks,
		PassedHooks:  result.PassedHooks,
		FailedHooks:  result.FailedHooks,
		ErroredHooks: result.ErroredHooks,
		Details:      make([]config.HookDetail, 0, len(result.HookResults)),
	}

	// Count failures by level
	for _, hr := range result.HookResults {
		if hr.Status == HOOK_STATUS_FAIL && !hr.Overridden {
			switch hr.Level {
			case HOOK_LEVEL_BLOCK:
				report.BlockingFailures++
			case HOOK_LEVEL_WARNING:
				report.WarningFailures++
			case HOOK_LEVEL_RECOMMEND:
				report.RecommendFailures++
			}
		}

		detail := config.HookDetail{
			ID:          hr.HookID,
			Name:        hr.HookName,
			Description: cfg.Hooks[hr.HookID].Description,
			Status:      hr.Status,
			Level:       hr.Level,
			Overridden:  hr.Overridden,
			Error:       hr.Error,
			Violations:  make([]string, 0, len(hr.Violations)),
			Fixes:       hr.Fixes,
		}

		for _, v := range hr.Violations {
			msg := v.Message
			if v.File != "" {
				msg = v.File + ": " + msg
			}
			detail.Violations = append(detail.Violations, msg)
		}

		report.Details = append(report.Details, detail)
	}

	return report
}
