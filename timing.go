package doguda

type TimingMode int

const (
	// TimingDisable will disable timing for all apps.
	TimingDisable TimingMode = iota

	// TimingProviders will start a timing context for each provider that is
	// invoked. This is useful to see where the time of an invocation is being
	// spent when the provider graph is deep.
	TimingProviders
)

var EnableTiming = TimingDisable
