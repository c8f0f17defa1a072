package doguda

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := app.CLI()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLI_PingOutput(t *testing.T) {
	app := newPingApp()

	out, err := runCLI(t, app, "ping", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"markdown": "ping 3"`)
}

func TestCLI_ScalarOutput(t *testing.T) {
	app := New("test")
	app.Command("double", func(x int) int { return x * 2 }, Param{Name: "x"})

	out, err := runCLI(t, app, "double", "21")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestCLI_DefaultBecomesFlag(t *testing.T) {
	app := New("test")
	app.Command("greet", func(name string) string { return "hello " + name },
		Param{Name: "name", Default: "world"})

	out, err := runCLI(t, app, "greet")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)

	out, err = runCLI(t, app, "greet", "--name", "gopher")
	require.NoError(t, err)
	assert.Equal(t, "hello gopher\n", out)
}

func TestCLI_ProviderParamsHidden(t *testing.T) {
	app := New("test")
	app.Provide(func() *testWidget { return &testWidget{Val: 9} })
	app.Command("use", func(a int, w *testWidget) int { return a + w.Val },
		Param{Name: "a"}, Param{Name: "w"})

	root := app.CLI()
	sub, _, err := root.Find([]string{"use"})
	require.NoError(t, err)

	// Only the caller-visible parameter shows up in the usage line.
	assert.Equal(t, "use <a>", sub.Use)
	assert.Nil(t, sub.Flags().Lookup("w"))

	out, err := runCLI(t, app, "use", "1")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestCLI_BadArgumentType(t *testing.T) {
	app := newPingApp()

	_, err := runCLI(t, app, "ping", "three")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestCLI_HandlerErrorPropagates(t *testing.T) {
	boom := errors.New("nope")
	app := New("test")
	app.Command("fail", func() (int, error) { return 0, boom })

	_, err := runCLI(t, app, "fail")
	assert.Equal(t, boom, err)
}

func TestCLI_MissingPositionalArgument(t *testing.T) {
	app := newPingApp()

	_, err := runCLI(t, app, "ping")
	require.Error(t, err)
}

func TestCLI_MapResultRendersAsJSON(t *testing.T) {
	app := New("test")
	app.Command("status", func() map[string]string {
		return map[string]string{"status": "ok"}
	})

	out, err := runCLI(t, app, "status")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"), "expected indented JSON, got %q", out)
	assert.Contains(t, out, `"status": "ok"`)
}

func TestCLI_SubcommandPerRegisteredCommand(t *testing.T) {
	app := New("test")
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("cmd%d", i)
		app.Command(name, func() int { return 0 })
	}

	root := app.CLI()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"cmd0", "cmd1", "cmd2"})
}
