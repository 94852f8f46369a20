package mutationdiff

import "fmt"

// Config holds the small set of knobs the embedder can tune when
// constructing a MutationDiff. Built with functional options, matching
// the builder pattern used for the wider toolkit's CLI tooling.
type Config struct {
	eagerSynchronize bool
	logSink          func(string)
}

// Option configures a Config.
type Option func(*Config)

// WithEagerSynchronize controls whether Record runs the engine's
// Synchronize against the live tree after every notification it ingests
// (true) or leaves that to explicit Synchronize calls (false, the
// default). Eager synchronization costs one Tree.SiblingsOf call per
// record with unknown mutated siblings on each Record. Queries (Mutated,
// Range, Diff) never synchronize on their own.
func WithEagerSynchronize(eager bool) Option {
	return func(c *Config) { c.eagerSynchronize = eager }
}

// WithLogSink installs a test-visible callback that receives one trace
// line for each attribute and character-data notification Record
// ingests. The [mutations] output of logMutation/logPromise still goes
// to glog and is not sent to the sink. Intended for tests that want to
// assert on tracing output without scraping glog's global sink.
func WithLogSink(sink func(string)) Option {
	return func(c *Config) { c.logSink = sink }
}

func newConfig(opts []Option) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Config) trace(format string, args ...any) {
	if c == nil || c.logSink == nil {
		return
	}
	c.logSink(fmt.Sprintf(format, args...))
}
