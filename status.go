package doguda

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Status is a diagnostic tool that returns a string describing the state of
// the app's registrations: each command with its handler signature, and each
// provider keyed by the type it produces. Resolution errors embed this so a
// failure report shows what the app actually knew about.
func (a *App) Status() string {
	lines := map[string]string{}
	var keys []string

	for name, cmd := range a.commands {
		key := "command " + name
		lines[key] = fmt.Sprintf("command %s - handler: %s", name, formatHandlerDebug(cmd.handler))
		keys = append(keys, key)
	}

	for t, p := range a.providers {
		key := fmt.Sprintf("provider %v", t)
		lines[key] = fmt.Sprintf("provider %v - handler: %s", t, formatHandlerDebug(p.handler))
		keys = append(keys, key)
	}

	sort.Strings(keys)

	ordered := make([]string, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, lines[key])
	}
	return strings.Join(ordered, "\n")
}

// formatHandlerDebug renders a handler's signature without the function's
// address, so Status output stays stable across runs.
func formatHandlerDebug(handler any) string {
	if handler == nil {
		return "-"
	}
	handlerType := reflect.TypeOf(handler)
	if handlerType.Kind() != reflect.Func {
		// Registration only accepts functions; anything else here is a bug.
		return "non-function!"
	}
	var in, out []string
	for i := 0; i < handlerType.NumIn(); i++ {
		in = append(in, handlerType.In(i).String())
	}
	for i := 0; i < handlerType.NumOut(); i++ {
		out = append(out, handlerType.Out(i).String())
	}
	return "(" + strings.Join(in, ", ") + ") " + strings.Join(out, ", ")
}
