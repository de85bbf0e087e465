package utils

import (
	"github.com/dorfnet/dorfnet/utils/dotenv"
	Flag "github.com/dorfnet/dorfnet/utils/flag"
	Logger "github.com/dorfnet/dorfnet/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// InitTracer starts the Datadog tracer. Call once from main, after flags are
// parsed.
func InitTracer() {
	tracer.Start(
		tracer.WithService(*Flag.ServiceName),
		tracer.WithEnv(dotenv.Env()),
	)

	Logger.Log.Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
