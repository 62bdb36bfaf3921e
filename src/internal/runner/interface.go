package runner

import "github.com/migops/upgrade-report/src/pkg/config"

type RunnerInterface interface {
	// Initialize the runner with necessary context and data
	Initialize() error

	// Comments returns the PR comments visible to this run, if any
	Comments() []*config.Comment

	// Main routine: run the hooks and publish the report
	Process() (*config.EnforcementResult, error)

	// Handling the export
	Output(rendered string, data *config.CheckReportData) error
}
