package utils

import (
	"github.com/dorfnet/dorfnet/utils/dotenv"
	Flag "github.com/dorfnet/dorfnet/utils/flag"
	Logger "github.com/dorfnet/dorfnet/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// InitProfiler starts the Datadog profiler. Call once from main, after flags
// are parsed.
func InitProfiler() {
	if err := profiler.Start(
		profiler.WithService(*Flag.ServiceName),
		profiler.WithEnv(dotenv.Env()),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			// The profiles below are disabled by
			// default to keep overhead low, but
			// can be enabled as needed.
			// profiler.BlockProfile,
			// profiler.MutexProfile,
			// profiler.GoroutineProfile,
		),
	); err != nil {
		Logger.Log.Fatal(err)
	}
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
