package log

import (
	"os"

	"github.com/dorfnet/dorfnet/utils/dotenv"
	"github.com/dorfnet/dorfnet/utils/flag"
	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if dotenv.Env() == dotenv.ProdEnv {
		// structured output for log collection in prod, plain text for
		// readability everywhere else
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	Log = logger.WithFields(
		logrus.Fields{"service": *flag.ServiceName, "is_development": dotenv.Env() != dotenv.ProdEnv},
	)
}
