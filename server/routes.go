package server

import (
	"net/http"

	"github.com/dorfnet/dorfnet/feed"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the feed read endpoint and the mutation gateway onto
// the router. Everything content-CRUD lives in other services; this surface
// is only the aggregated feed and its like/comment mutations.
func RegisterRoutes(router *gin.Engine, aggregator *feed.Aggregator) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	api.GET("/feed", FeedHandler(aggregator))
	api.POST("/feed/like", LikeHandler(aggregator))
	api.GET("/feed/comments", ListCommentsHandler(aggregator))
	api.POST("/feed/comments", AddCommentHandler(aggregator))
}
