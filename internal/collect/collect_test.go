package collect

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/orchestrate"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

func newRegistry(t *testing.T) *scenario.Registry {
	t.Helper()
	reg := scenario.NewRegistry()
	reg.MustRegister(&scenario.Func{ScenarioName: "base", Desc: "Base scenario"})
	reg.MustRegister(&scenario.Func{ScenarioName: "advanced", Desc: "Advanced scenario"})
	return reg
}

func TestCollect_GeneratesFixturesPerScenario(t *testing.T) {
	t.Parallel()

	raw, err := Collect(newRegistry(t), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"setup[base]", "setup[advanced]",
		"teardown[base]", "teardown[advanced]",
	}, testcase.IDs(raw))
	assert.Equal(t, testcase.KindSetup, raw[0].Kind)
	assert.Equal(t, testcase.KindTeardown, raw[3].Kind)
}

func TestCollect_ExpandsScenarioMajor(t *testing.T) {
	t.Parallel()

	raw, err := Collect(newRegistry(t), []Declaration{
		{Name: "attr_a", Scenarios: []string{"base", "advanced"}, Params: []string{"1", "2"}},
		{Name: "attr_b", Scenarios: []string{"base"}},
	})
	require.NoError(t, err)

	want := []string{
		"setup[base]", "setup[advanced]", "teardown[base]", "teardown[advanced]",
		"attr_a[base-1]", "attr_a[base-2]", "attr_a[advanced-1]", "attr_a[advanced-2]",
		"attr_b[base]",
	}
	if diff := cmp.Diff(want, testcase.IDs(raw)); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}

	a := raw[5]
	assert.Equal(t, "attr_a", a.Name)
	assert.Equal(t, "2", a.Param)
	assert.Equal(t, testcase.KindBody, a.Kind)
	assert.Equal(t, "base", a.Scenario.Name())
}

func TestCollect_EmptyScenariosMeansAll(t *testing.T) {
	t.Parallel()

	raw, err := Collect(newRegistry(t), []Declaration{{Name: "smoke"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"smoke[base]", "smoke[advanced]"}, testcase.IDs(raw[4:]))
}

func TestCollect_UnknownScenario(t *testing.T) {
	t.Parallel()

	_, err := Collect(newRegistry(t), []Declaration{{Name: "x", Scenarios: []string{"ghost"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, scenario.ErrNotFound)
}

func TestCollect_InvalidDeclarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		decl Declaration
	}{
		{name: "empty name", decl: Declaration{}},
		{name: "reserved setup", decl: Declaration{Name: "setup"}},
		{name: "reserved teardown", decl: Declaration{Name: "teardown"}},
		{name: "empty param", decl: Declaration{Name: "x", Params: []string{"1", ""}}},
		{name: "open bracket in param", decl: Declaration{Name: "t", Scenarios: []string{"base"}, Params: []string{"v[1"}}},
		{name: "close bracket in param", decl: Declaration{Name: "t", Params: []string{"v]"}}},
		{name: "bracket in name", decl: Declaration{Name: "t[x]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Collect(newRegistry(t), []Declaration{tt.decl})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDeclaration)
		})
	}
}

func TestCollect_JoinsAllErrors(t *testing.T) {
	t.Parallel()

	_, err := Collect(newRegistry(t), []Declaration{
		{Name: "setup"},
		{Name: "y", Scenarios: []string{"ghost"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDeclaration)
	assert.ErrorIs(t, err, scenario.ErrNotFound)
}

func TestCollect_BodyReceivesScenarioAndParam(t *testing.T) {
	t.Parallel()

	var seen []string
	raw, err := Collect(newRegistry(t), []Declaration{{
		Name:      "attr_a",
		Scenarios: []string{"advanced"},
		Params:    []string{"3"},
		Run: func(ctx context.Context, sc scenario.Scenario) error {
			seen = append(seen, sc.Name()+"/"+ParamFrom(ctx))
			return nil
		},
	}})
	require.NoError(t, err)

	require.NoError(t, raw[4].Execute(context.Background()))
	assert.Equal(t, []string{"advanced/3"}, seen)
}

func TestCollect_NilRunPasses(t *testing.T) {
	t.Parallel()

	raw, err := Collect(newRegistry(t), []Declaration{{Name: "noop", Scenarios: []string{"base"}}})
	require.NoError(t, err)
	assert.NoError(t, raw[4].Execute(context.Background()))
}

func TestCollect_FeedsOrchestrator(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)
	raw, err := Collect(reg, []Declaration{
		{Name: "attr_a", Scenarios: []string{"base", "advanced"}, Params: []string{"1"},
			Run: func(context.Context, scenario.Scenario) error { return errors.New("unused") }},
		{Name: "attr_b", Scenarios: []string{"base"}},
	})
	require.NoError(t, err)

	order, err := orchestrate.Reorder(raw, orchestrate.RunConfig{Selection: orchestrate.Only("base")}, reg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"setup[base]", "attr_a[base-1]", "attr_b[base]", "teardown[base]",
	}, testcase.IDs(order))
}
