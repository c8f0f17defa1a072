package doguda

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gburgyan/go-timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ProviderOncePerInvocation(t *testing.T) {
	calls := 0
	app := New("test")
	app.Provide(func() *testWidget {
		calls++
		return &testWidget{Val: 42}
	})
	// Both the doodad provider and the command itself need the widget; one
	// invocation must produce exactly one widget.
	app.Provide(func(w *testWidget) *testDoodad {
		return &testDoodad{Val: fmt.Sprintf("doodad-%d", w.Val)}
	})
	app.Command("use", func(w *testWidget, d *testDoodad) string {
		return fmt.Sprintf("%d/%s", w.Val, d.Val)
	}, Param{Name: "w"}, Param{Name: "d"})

	result, err := app.Invoke(context.Background(), "use", nil)
	require.NoError(t, err)
	assert.Equal(t, "42/doodad-42", result)
	assert.Equal(t, 1, calls)

	// A second invocation gets its own cache, so the provider runs again.
	_, err = app.Invoke(context.Background(), "use", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestResolve_TransitiveProviders(t *testing.T) {
	app := New("test")
	app.Provide(func() *testWidget { return &testWidget{Val: 7} })
	app.Provide(func(w *testWidget) *testDoodad {
		return &testDoodad{Val: fmt.Sprintf("from-widget-%d", w.Val)}
	})
	// The command only asks for the doodad; the widget is resolved through
	// the provider graph, not just one level deep.
	app.Command("deep", func(d *testDoodad) string { return d.Val }, Param{Name: "d"})

	result, err := app.Invoke(context.Background(), "deep", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-widget-7", result)
}

func TestResolve_SuppliedArgumentWinsOverProvider(t *testing.T) {
	calls := 0
	app := New("test")
	app.Provide(func() *testWidget {
		calls++
		return &testWidget{Val: 1}
	})
	app.Command("get", func(w *testWidget) int { return w.Val }, Param{Name: "w"})

	result, err := app.Invoke(context.Background(), "get", map[string]any{
		"w": &testWidget{Val: 99},
	})
	require.NoError(t, err)
	assert.Equal(t, 99, result)
	assert.Equal(t, 0, calls)
}

func TestResolve_CycleDetected(t *testing.T) {
	app := New("test")
	app.Provide(func(d *testDoodad) *testWidget { return &testWidget{} })
	app.Provide(func(w *testWidget) *testDoodad { return &testDoodad{} })
	app.Command("cyclic", func(w *testWidget) int { return w.Val }, Param{Name: "w"})

	_, err := app.Invoke(context.Background(), "cyclic", nil)
	require.Error(t, err)

	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.Contains(t, depErr.Message, "cyclic")
}

func TestResolve_SelfCycleDetected(t *testing.T) {
	app := New("test")
	app.Provide(func(w *testWidget) *testWidget { return w })
	app.Command("cyclic", func(w *testWidget) int { return w.Val }, Param{Name: "w"})

	_, err := app.Invoke(context.Background(), "cyclic", nil)
	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
}

func TestResolve_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("widget store is down")
	app := New("test")
	app.Provide(func() (*testWidget, error) { return nil, boom })
	app.Command("get", func(w *testWidget) int { return w.Val }, Param{Name: "w"})

	_, err := app.Invoke(context.Background(), "get", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.NotEmpty(t, depErr.Status)
}

func TestResolve_ProviderReceivesContext(t *testing.T) {
	type ctxKey struct{}
	app := New("test")
	app.Provide(func(ctx context.Context) *testDoodad {
		return &testDoodad{Val: ctx.Value(ctxKey{}).(string)}
	})
	app.Command("get", func(d *testDoodad) string { return d.Val }, Param{Name: "d"})

	ctx := context.WithValue(context.Background(), ctxKey{}, "from-context")
	result, err := app.Invoke(ctx, "get", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-context", result)
}

func TestResolve_ProviderWithUnfillableParameter(t *testing.T) {
	app := New("test")
	app.Provide(func(s string) *testWidget { return &testWidget{} })
	app.Command("get", func(w *testWidget) int { return w.Val }, Param{Name: "w"})

	_, err := app.Invoke(context.Background(), "get", nil)
	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
}

func TestResolve_TimingProvidersWrapsProviderCalls(t *testing.T) {
	EnableTiming = TimingProviders
	t.Cleanup(func() { EnableTiming = TimingDisable })

	calls := 0
	app := New("test")
	// The provider takes a context so it runs inside the timing span that
	// resolveType opens for it.
	app.Provide(func(ctx context.Context) *testWidget {
		calls++
		return &testWidget{Val: 42}
	})
	app.Command("get", func(w *testWidget) int { return w.Val }, Param{Name: "w"})

	result, err := app.Invoke(timing.Root(context.Background()), "get", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestInvoke_Idempotent(t *testing.T) {
	app := New("test")
	app.Provide(func() *testWidget { return &testWidget{Val: 10} })
	app.Command("sum", func(a int, w *testWidget) int { return a + w.Val },
		Param{Name: "a"}, Param{Name: "w"})

	first, err := app.Invoke(context.Background(), "sum", map[string]any{"a": 5})
	require.NoError(t, err)
	second, err := app.Invoke(context.Background(), "sum", map[string]any{"a": 5})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 15, first)
}
