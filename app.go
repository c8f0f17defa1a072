package doguda

import (
	"fmt"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Param describes one non-context parameter of a command handler. Params are
// given at registration in declaration order; Go reflection exposes parameter
// types but not names, so the descriptor supplies the name that CLI arguments
// and request body fields are matched against.
//
// A nil Default marks the parameter as required. A non-nil Default must be
// convertible to the parameter's declared type.
type Param struct {
	Name    string
	Default any
	Doc     string
}

// param is the registered form of a Param, paired with the reflected type of
// the handler parameter it describes.
type param struct {
	name       string
	paramType  reflect.Type
	hasDefault bool
	defValue   reflect.Value
	doc        string
}

// command holds a registered handler along with the signature information
// needed to resolve arguments and synthesize schemas.
type command struct {
	name         string
	handler      any
	handlerValue reflect.Value
	doc          string
	// params covers the non-context parameters in declaration order. Provider
	// backed parameters are included here; the schema synthesizer strips them.
	params []param
	// resultType is the declared non-error result type, or nil when the
	// handler returns nothing besides an optional error.
	resultType reflect.Type
}

// AppOption is a functional option for configuring an App.
type AppOption func(*App)

// WithLogger sets the logger used by the HTTP surface. The default is a
// no-op logger.
func WithLogger(logger *zap.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics registers the app's invocation metrics on the given registry
// instead of an app-private one. Useful when the process already exposes a
// Prometheus registry.
func WithMetrics(registry *prometheus.Registry) AppOption {
	return func(a *App) {
		a.metrics = newAppMetrics(registry)
	}
}

// App owns one command registry and one provider table. Both are populated
// through the registration calls below and are read-only afterward, so an App
// can serve any number of concurrent invocations without locking. All
// registration must complete before a surface is built or served.
type App struct {
	name      string
	commands  map[string]*command
	order     []string
	providers map[reflect.Type]*provider
	logger    *zap.Logger
	metrics   *appMetrics
}

// New creates an empty App with the given name. The name becomes the Use line
// of the generated CLI root command.
func New(name string, opts ...AppOption) *App {
	a := &App{
		name:      name,
		commands:  map[string]*command{},
		providers: map[reflect.Type]*provider{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = newAppMetrics(prometheus.NewRegistry())
	}
	return a
}

// Name returns the app name given to New.
func (a *App) Name() string {
	return a.name
}

// Command registers handler under name. The params descriptors must name
// every non-context parameter of the handler in declaration order; parameters
// whose type matches a registered provider are still named here but never
// surface in the input schema.
//
// The handler must be a function of the shape
//
//	func([ctx context.Context,] p1 T1, p2 T2, ...) ([R,] [error])
//
// with at most one non-error result and at most one error result. A malformed
// handler or a mismatched descriptor list panics: these are programmer errors
// that should fail at startup, not at invocation time.
//
// Registering the same name twice silently replaces the earlier command.
func (a *App) Command(name string, handler any, params ...Param) {
	cmd := a.newCommand(name, handler, params)
	if _, exists := a.commands[name]; !exists {
		a.order = append(a.order, name)
	}
	a.commands[name] = cmd
}

// CommandDoc behaves like Command but also attaches a one-line description
// that shows up in CLI help output.
func (a *App) CommandDoc(name, doc string, handler any, params ...Param) {
	a.Command(name, handler, params...)
	a.commands[name].doc = doc
}

// Commands returns the registered commands in registration order. Surface
// generation iterates this so the generated subcommands and routes are
// deterministic.
func (a *App) Commands() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

func (a *App) newCommand(name string, handler any, params []Param) *command {
	if name == "" {
		panic("command name must not be empty")
	}
	handlerType := reflect.TypeOf(handler)
	if handlerType == nil || handlerType.Kind() != reflect.Func {
		panic(fmt.Sprintf("command %q handler must be a function", name))
	}

	info := getTypeInfo(handlerType)
	if len(info.funcReturns) > 1 {
		panic(fmt.Sprintf("command %q handler must have at most one non-error result", name))
	}

	nonContext := 0
	for _, in := range info.funcParams {
		if in != contextType {
			nonContext++
		}
	}
	if nonContext != len(params) {
		panic(fmt.Sprintf("command %q: handler has %d non-context parameters but %d descriptors were given",
			name, nonContext, len(params)))
	}

	cmd := &command{
		name:         name,
		handler:      handler,
		handlerValue: reflect.ValueOf(handler),
	}
	if len(info.funcReturns) == 1 {
		cmd.resultType = info.funcReturns[0]
	}

	descriptor := 0
	for _, in := range info.funcParams {
		if in == contextType {
			continue
		}
		d := params[descriptor]
		descriptor++
		if d.Name == "" {
			panic(fmt.Sprintf("command %q: parameter descriptor %d has no name", name, descriptor))
		}
		p := param{name: d.Name, paramType: in, doc: d.Doc}
		if d.Default != nil {
			dv := reflect.ValueOf(d.Default)
			if !dv.Type().ConvertibleTo(in) {
				panic(fmt.Sprintf("command %q: default for %q is %v, not convertible to %v",
					name, d.Name, dv.Type(), in))
			}
			p.hasDefault = true
			p.defValue = dv.Convert(in)
		}
		cmd.params = append(cmd.params, p)
	}

	return cmd
}
