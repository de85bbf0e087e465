package feed

import (
	"time"

	Logger "github.com/dorfnet/dorfnet/utils/log"
)

// Thin wrappers over the DogStatsD client so call sites stay one-liners and
// a nil client (tests, local runs without an agent) disables reporting.

func (a *Aggregator) incr(name string, tags ...string) {
	if a.Statsd == nil {
		return
	}
	if err := a.Statsd.Incr(name, tags, 1); err != nil {
		Logger.Log.Warn("fail to emit counter ", name, ": ", err)
	}
}

func (a *Aggregator) timing(name string, value time.Duration, tags ...string) {
	if a.Statsd == nil {
		return
	}
	if err := a.Statsd.Timing(name, value, tags, 1); err != nil {
		Logger.Log.Warn("fail to emit timing ", name, ": ", err)
	}
}
