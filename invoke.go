package doguda

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Invoke executes the named command end to end: a fresh resolution cache is
// created, the supplied arguments are merged with provider-resolved ones, and
// the handler's raw result is returned. Handler errors propagate unmodified.
//
// Each call owns its resolution cache, so two concurrent invocations never
// share provider results. Both generated surfaces funnel through here.
func (a *App) Invoke(ctx context.Context, name string, supplied map[string]any) (any, error) {
	cmd, ok := a.commands[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}

	start := time.Now()
	result, err := a.invoke(ctx, cmd, supplied)
	a.metrics.observe(name, time.Since(start), err)
	return result, err
}

func (a *App) invoke(ctx context.Context, cmd *command, supplied map[string]any) (any, error) {
	res := newResolution()

	args, missing, err := a.resolveArgs(ctx, cmd, supplied, res)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("command %q missing required arguments: %s",
			cmd.name, strings.Join(missing, ", "))
	}

	results := cmd.handlerValue.Call(args)
	if err := extractError(results); err != nil {
		return nil, err
	}
	for _, result := range results {
		if !result.Type().AssignableTo(errorType) {
			return result.Interface(), nil
		}
	}
	return nil, nil
}
