package doguda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputSchema_SkipsProviderParams(t *testing.T) {
	app := New("test")
	app.Provide(func() *testWidget { return &testWidget{} })
	app.Command("mix", func(a int, b *testWidget) int { return a },
		Param{Name: "a"}, Param{Name: "b"})

	schema, err := app.InputSchema("mix")
	require.NoError(t, err)

	assert.Contains(t, schema.Properties, "a")
	assert.NotContains(t, schema.Properties, "b")
	assert.Equal(t, []string{"a"}, schema.Required)
}

func TestInputSchema_RequiredAndDefaults(t *testing.T) {
	app := New("test")
	app.Command("greet", func(name string, shout bool) string { return name },
		Param{Name: "name"},
		Param{Name: "shout", Default: false})

	schema, err := app.InputSchema("greet")
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, schema.Required)
	assert.Equal(t, "string", schema.Properties["name"].Type)
	assert.Equal(t, "boolean", schema.Properties["shout"].Type)
	assert.JSONEq(t, "false", string(schema.Properties["shout"].Default))

	resolved, err := schema.Resolve(nil)
	require.NoError(t, err)
	assert.NoError(t, resolved.Validate(map[string]any{"name": "x"}))
	assert.Error(t, resolved.Validate(map[string]any{"shout": true}))
	assert.Error(t, resolved.Validate(map[string]any{"name": 3}))
}

func TestInputSchema_UnconstrainedParameter(t *testing.T) {
	app := New("test")
	app.Command("anything", func(v any) any { return v }, Param{Name: "v"})

	schema, err := app.InputSchema("anything")
	require.NoError(t, err)

	resolved, err := schema.Resolve(nil)
	require.NoError(t, err)
	assert.NoError(t, resolved.Validate(map[string]any{"v": "text"}))
	assert.NoError(t, resolved.Validate(map[string]any{"v": float64(12)}))
	assert.NoError(t, resolved.Validate(map[string]any{"v": map[string]any{"k": true}}))
}

func TestInputSchema_IntegerRejectsString(t *testing.T) {
	app := newPingApp()

	schema, err := app.InputSchema("ping")
	require.NoError(t, err)

	resolved, err := schema.Resolve(nil)
	require.NoError(t, err)
	assert.NoError(t, resolved.Validate(map[string]any{"x": float64(3)}))
	assert.Error(t, resolved.Validate(map[string]any{"x": "3"}))
}

func TestOutputSchema_FromResultType(t *testing.T) {
	app := newPingApp()

	schema, err := app.OutputSchema("ping")
	require.NoError(t, err)
	require.NotNil(t, schema)

	assert.Equal(t, "object", schema.Type)
	require.Contains(t, schema.Properties, "markdown")
	assert.Equal(t, "string", schema.Properties["markdown"].Type)
}

func TestOutputSchema_NilForVoidHandler(t *testing.T) {
	app := New("test")
	app.Command("fire", func() error { return nil })

	schema, err := app.OutputSchema("fire")
	require.NoError(t, err)
	assert.Nil(t, schema)
}

func TestSchemaForType_NestedStructures(t *testing.T) {
	type inner struct {
		Tag string `json:"tag"`
	}
	type outer struct {
		Name     string         `json:"name"`
		Items    []inner        `json:"items"`
		Counts   map[string]int `json:"counts"`
		Optional *inner         `json:"optional,omitempty"`
		Ignored  string         `json:"-"`
	}

	app := New("test")
	app.Command("make", func() outer { return outer{} })

	schema, err := app.OutputSchema("make")
	require.NoError(t, err)

	assert.Equal(t, "object", schema.Type)
	assert.Contains(t, schema.Properties, "name")
	assert.NotContains(t, schema.Properties, "Ignored")
	assert.NotContains(t, schema.Required, "optional")

	items := schema.Properties["items"]
	assert.Equal(t, "array", items.Type)
	assert.Equal(t, "string", items.Items.Properties["tag"].Type)

	counts := schema.Properties["counts"]
	assert.Equal(t, "object", counts.Type)
	assert.Equal(t, "integer", counts.AdditionalProperties.Type)
}
