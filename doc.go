// Package doguda turns ordinary Go functions into commands that are exposed
// simultaneously as CLI subcommands and HTTP endpoints. A command is registered
// once with a name and a parameter descriptor list; provider functions registered
// alongside it supply auxiliary arguments, such as database handles or derived
// values, that the caller never has to pass explicitly.
//
// Providers are keyed by their result type. When a command is invoked, every
// parameter that is not supplied by the caller and whose type matches a
// registered provider is resolved recursively through the provider graph, with
// each type produced at most once per invocation.
//
// The App object has comprehensive documentation about how registration and
// resolution work.
//
// There are also helper global functions that register against a process-wide
// default App to make simple programs more concise.
package doguda
