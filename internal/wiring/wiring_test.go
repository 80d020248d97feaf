package wiring

import (
	"errors"
	"testing"

	corelog "gatehouse/internal/core/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corePool() *Pool {
	return NewPool("core", map[string]any{
		"Log":    corelog.NewNopLogger(),
		"Hasher": "core-hasher",
	})
}

func counting(name string, calls *int, requires ...string) Component {
	return Component{
		Name:     name,
		Requires: requires,
		Build: func(p Providers) (any, error) {
			*calls++
			return name + "-instance", nil
		},
	}
}

func TestResolveReadyWhenAllNamesPresent(t *testing.T) {
	calls := 0
	c := counting("UserService", &calls, "Log", "UserRepo")
	providers := NewProviders(corePool(), NewPool("repository", map[string]any{"UserRepo": "repo"}))

	outcome, err := Resolve(c, providers, true)
	require.NoError(t, err)
	assert.True(t, outcome.Ready())
	assert.True(t, outcome.Built())
	assert.Equal(t, "UserService-instance", outcome.Instance)
	assert.Empty(t, outcome.Missing)
	assert.Equal(t, 1, calls)
}

func TestResolveReportsAllMissingInOrder(t *testing.T) {
	calls := 0
	c := counting("AuthService", &calls, "TokenRepo", "Log", "UserRepo", "Tokens")

	outcome, err := Resolve(c, NewProviders(corePool(), NewPool("repository", nil)), true)
	require.NoError(t, err)
	assert.False(t, outcome.Ready())
	assert.Nil(t, outcome.Instance)
	assert.Equal(t, []string{"TokenRepo", "UserRepo", "Tokens"}, outcome.Missing)
	assert.Zero(t, calls, "constructor must not run when unsatisfied")
}

func TestResolveInspectOnlyNeverBuilds(t *testing.T) {
	calls := 0
	c := counting("RoleService", &calls, "Log")

	outcome, err := Resolve(c, NewProviders(corePool()), false)
	require.NoError(t, err)
	assert.True(t, outcome.Ready())
	assert.False(t, outcome.Built())
	assert.Zero(t, calls)
}

func TestResolveConstructorFailure(t *testing.T) {
	boom := errors.New("boom")
	c := Component{Name: "X", Build: func(Providers) (any, error) { return nil, boom }}

	outcome, err := Resolve(c, NewProviders(corePool()), true)
	assert.ErrorIs(t, err, boom)
	assert.False(t, outcome.Ready())
}

func TestCorePoolWinsOnCollision(t *testing.T) {
	providers := NewProviders(corePool(), NewPool("repository", map[string]any{"Hasher": "layer-hasher"}))

	v, ok := providers.Lookup("Hasher")
	require.True(t, ok)
	assert.Equal(t, "core-hasher", v)
}

func TestGetTyped(t *testing.T) {
	providers := NewProviders(corePool())

	logger, err := Get[corelog.Logger](providers, "Log")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = Get[int](providers, "Hasher")
	assert.Error(t, err)

	_, err = Get[string](providers, "Nope")
	assert.Error(t, err)
}

func TestPoolIsImmutableCopy(t *testing.T) {
	src := map[string]any{"a": 1}
	p := NewPool("x", src)
	src["b"] = 2

	assert.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"a"}, p.Names())
}

func TestAssembleSuccessChainsLayers(t *testing.T) {
	a := NewAssembler(corePool(), WithLogger(corelog.NewNopLogger()))
	seed := NewPool("drivers", map[string]any{"Postgres": "pg"})

	result, err := a.Assemble(seed,
		Layer{Kind: KindRepository, Components: []Component{
			{Name: "UserRepo", Requires: Requirement{"Postgres"}, Build: func(p Providers) (any, error) {
				pg := MustGet[string](p, "Postgres")
				return "users@" + pg, nil
			}},
		}},
		Layer{Kind: KindService, Components: []Component{
			{Name: "UserService", Requires: Requirement{"UserRepo", "Log"}, Build: func(p Providers) (any, error) {
				return "svc(" + MustGet[string](p, "UserRepo") + ")", nil
			}},
		}},
		Layer{Kind: KindHandlerGroup, Components: []Component{
			{Name: "UserController", Requires: Requirement{"UserService"}, Build: func(p Providers) (any, error) {
				return "ctl(" + MustGet[string](p, "UserService") + ")", nil
			}},
			{Name: "HealthController", Build: func(Providers) (any, error) { return "health", nil }},
		}},
	)
	require.NoError(t, err)

	handlers, ok := result.Layer(KindHandlerGroup)
	require.True(t, ok)
	named := handlers.Instances()
	require.Len(t, named, 2)
	assert.Equal(t, "UserController", named[0].Name)
	assert.Equal(t, "ctl(svc(users@pg))", named[0].Instance)
	assert.Equal(t, "HealthController", named[1].Name)
}

func TestAssembleAggregatesAcrossLayers(t *testing.T) {
	builds := 0
	a := NewAssembler(corePool(), WithLogger(corelog.NewNopLogger()))

	_, err := a.Assemble(NewPool("drivers", nil),
		Layer{Kind: KindRepository, Components: []Component{
			counting("UserRepo", &builds, "Postgres"),
			counting("TokenRepo", &builds, "Redis"),
		}},
		Layer{Kind: KindService, Components: []Component{
			counting("AuthService", &builds, "UserRepo", "TokenRepo", "Tokens"),
		}},
	)
	require.Error(t, err)

	var report *Report
	require.ErrorAs(t, err, &report)
	require.Len(t, report.Errors, 3)

	assert.Equal(t, &WiringError{Component: "UserRepo", Layer: KindRepository, Missing: []string{"Postgres"}}, report.Errors[0])
	assert.Equal(t, &WiringError{Component: "TokenRepo", Layer: KindRepository, Missing: []string{"Redis"}}, report.Errors[1])
	// UserRepo and TokenRepo were never published, so the service reports them too.
	assert.Equal(t, []string{"UserRepo", "TokenRepo", "Tokens"}, report.Errors[2].Missing)
	assert.Zero(t, builds)
}

func TestAssembleInspectOnlyPublishesSatisfiedNames(t *testing.T) {
	builds := 0
	a := NewAssembler(corePool(), WithLogger(corelog.NewNopLogger()))

	_, err := a.Assemble(NewPool("drivers", map[string]any{"Postgres": "pg"}),
		Layer{Kind: KindRepository, Components: []Component{
			counting("TokenRepo", &builds, "Redis"),
			counting("UserRepo", &builds, "Postgres"),
		}},
		Layer{Kind: KindService, Components: []Component{
			counting("UserService", &builds, "UserRepo"),
			counting("AuthService", &builds, "UserRepo", "TokenRepo"),
		}},
	)

	var report *Report
	require.ErrorAs(t, err, &report)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, "TokenRepo", report.Errors[0].Component)
	assert.Equal(t, "AuthService", report.Errors[1].Component)
	assert.Equal(t, []string{"TokenRepo"}, report.Errors[1].Missing)
	assert.Zero(t, builds, "nothing is constructed after the first failure")
}

func TestAssembleConstructorFailureStopsConstruction(t *testing.T) {
	builds := 0
	boom := errors.New("dial failed")
	a := NewAssembler(corePool(), WithLogger(corelog.NewNopLogger()))

	_, err := a.Assemble(NewPool("drivers", nil),
		Layer{Kind: KindRepository, Components: []Component{
			{Name: "UserRepo", Build: func(Providers) (any, error) { return nil, boom }},
			counting("RoleRepo", &builds),
		}},
	)

	var report *Report
	require.ErrorAs(t, err, &report)
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, builds)
}

func TestReportMessage(t *testing.T) {
	report := &Report{Errors: []*WiringError{
		{Component: "UserController", Layer: KindHandlerGroup, Missing: []string{"UserService", "ApiError"}},
	}}

	assert.Equal(t,
		"UserController requires provider \"UserService, ApiError\"\nprocess has failed on dependency injection",
		report.Error())
	assert.Equal(t, 2, report.Unresolved())
}

func TestAssembleRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	a := NewAssembler(corePool(), WithLogger(corelog.NewNopLogger()), WithMetrics(m))
	_, err = a.Assemble(NewPool("drivers", nil),
		Layer{Kind: KindRepository, Components: []Component{{Name: "UserRepo", Requires: Requirement{"Postgres", "Redis"}}}},
	)
	require.Error(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.unresolved))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.layerErrors.WithLabelValues(string(KindRepository))))
}
