package collect

import (
	"context"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

type paramKey struct{}

// ParamFrom returns the parametrization token of the running case, or ""
// for an unparametrized case.
func ParamFrom(ctx context.Context) string {
	p, _ := ctx.Value(paramKey{}).(string)
	return p
}

// withParam binds param into the context seen by run.
func withParam(run testcase.Body, param string) testcase.Body {
	return func(ctx context.Context, sc scenario.Scenario) error {
		return run(context.WithValue(ctx, paramKey{}, param), sc)
	}
}
