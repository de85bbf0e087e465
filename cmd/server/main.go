package main

import (
	"os"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/dorfnet/dorfnet/feed"
	"github.com/dorfnet/dorfnet/server"
	"github.com/dorfnet/dorfnet/server/middlewares"
	"github.com/dorfnet/dorfnet/utils"
	"github.com/dorfnet/dorfnet/utils/dotenv"
	Flag "github.com/dorfnet/dorfnet/utils/flag"
	Logger "github.com/dorfnet/dorfnet/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	utils.CloseProfiler()
	utils.CloseTracer()
	Logger.Log.Info("api server shutdown")
}

// NewDogStatsdClient creates a client talking to the local DD agent. Returns
// nil outside prod so local runs don't need an agent.
func NewDogStatsdClient() *statsd.Client {
	if dotenv.Env() != dotenv.ProdEnv {
		return nil
	}
	client, err := statsd.New("127.0.0.1:8125")
	if err != nil {
		Logger.Log.Fatal("fail to create statsd client: ", err)
	}
	return client
}

func main() {
	Flag.ParseFlags()
	Logger.InitLogger()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	if dotenv.Env() == dotenv.ProdEnv {
		utils.InitTracer()
		utils.InitProfiler()
	}
	defer cleanup()

	db, err := utils.GetDBConnection()
	if err != nil {
		Logger.Log.Fatal("fail to connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	var cache *feed.FeedCache
	if os.Getenv("REDIS_HOST") != "" {
		cache = feed.NewFeedCache()
	}

	aggregator := feed.NewAggregator(db, cache, NewDogStatsdClient())

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(*Flag.ServiceName))
	if !*Flag.ByPassAuth {
		router.Use(middlewares.Viewer(db))
	}

	server.RegisterRoutes(router, aggregator)

	Logger.Log.Info("api server starts up")
	router.Run(":8080")
}
