package runner

import (
	"context"

	"github.com/migops/upgrade-report/src/pkg/hooks"
	"github.com/migops/upgrade-report/src/pkg/policy"
	"github.com/migops/upgrade-report/src/pkg/template"
)

type RunnerLocal struct {
	RunnerBase
}

// make RunnerLocal implement RunnerInterface
var _ RunnerInterface = (*RunnerLocal)(nil)

func NewRunnerLocal(
	ctx context.Context,
	options *Options,
	hookRunner *hooks.Runner,
	evaluator *policy.Evaluator,
	reporter *policy.Reporter,
	renderer *template.Renderer,
) (*RunnerLocal, error) {
	baseRunner, err := NewRunnerBase(ctx, options, hookRunner, evaluator, reporter, renderer)
	if err != nil {
		return nil, err
	}
	runner := &RunnerLocal{
		RunnerBase: *baseRunner,
	}
	runner.Instance = runner
	return runner, nil
}
