package doguda

// defaultApp is one ordinary App created at process start. The package-level
// registration helpers below target it, so a program that only ever needs a
// single app never has to thread an instance around. Programs that want more
// than one app, or explicit wiring, use New directly.
var defaultApp = New("doguda")

// Default returns the process-wide default app that the package-level
// registration helpers target.
func Default() *App {
	return defaultApp
}

// Command registers a command on the default app. See App.Command.
func Command(name string, handler any, params ...Param) {
	defaultApp.Command(name, handler, params...)
}

// Provide registers a provider on the default app. See App.Provide.
func Provide(fn any) {
	defaultApp.Provide(fn)
}
