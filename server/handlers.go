package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dorfnet/dorfnet/feed"
	"github.com/dorfnet/dorfnet/model"
	"github.com/dorfnet/dorfnet/server/middlewares"
	Logger "github.com/dorfnet/dorfnet/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Error codes surfaced in the JSON error envelope {code, msg}.
const (
	ErrorInvalidArgument  = "INVALID_ARGUMENT"
	ErrorNotAuthenticated = "NOT_AUTHENTICATED"
	ErrorNotFound         = "NOT_FOUND"
	ErrorUnsupported      = "UNSUPPORTED_OPERATION"
	ErrorInternal         = "INTERNAL"
)

// FeedHandler serves GET /api/feed. Two pagination styles exist in the wild:
// page-number (page, default 1) and offset (offset + limit). Both are
// accepted and reconciled onto the aggregator's canonical offset; the
// response echoes whichever cursor style the caller used.
func FeedHandler(aggregator *feed.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		pageSize, err := positiveIntParam(c, "limit", feed.DefaultPageSize)
		if err != nil {
			abortInvalid(c, "limit", err)
			return
		}
		if pageSize == 0 {
			abortInvalid(c, "limit", errors.New("must be a positive integer"))
			return
		}
		// Clamp before the offset math so page numbering and the aggregator's
		// own cap can never disagree; the response echoes the effective limit.
		if pageSize > feed.MaxPageSize {
			pageSize = feed.MaxPageSize
		}

		offsetStyle := c.Query("offset") != ""
		var offset, page int
		if offsetStyle {
			if offset, err = positiveIntParam(c, "offset", 0); err != nil {
				abortInvalid(c, "offset", err)
				return
			}
		} else {
			if page, err = positiveIntParam(c, "page", 1); err != nil || page < 1 {
				abortInvalid(c, "page", errors.New("must be a positive integer"))
				return
			}
			offset = (page - 1) * pageSize
		}

		types, err := parseTypesFilter(c.Query("types"))
		if err != nil {
			abortInvalid(c, "types", err)
			return
		}

		viewer := middlewares.CurrentViewer(c)
		query := feed.FeedQuery{
			Offset:   offset,
			PageSize: pageSize,
			Types:    types,
		}
		if viewer != nil {
			// Village scope always comes from the viewer's profile, never
			// from a client parameter.
			query.ViewerID = viewer.Id
			query.VillageID = viewer.VillageID
		} else {
			// Anonymous readers (public kiosk pages) name the village
			// explicitly since there is no profile to derive it from.
			query.VillageID = c.Query("village")
		}

		result, err := aggregator.GetFeed(c.Request.Context(), query)
		if err != nil {
			respondError(c, err)
			return
		}

		response := gin.H{
			"items":   result.Items,
			"hasMore": result.HasMore,
			"limit":   query.PageSize,
		}
		if offsetStyle {
			response["offset"] = offset
		} else {
			response["page"] = page
		}
		c.JSON(http.StatusOK, response)
	}
}

type likeRequest struct {
	Id   string `json:"id"`
	Type string `json:"type"`
}

// LikeHandler serves POST /api/feed/like.
func LikeHandler(aggregator *feed.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := middlewares.CurrentViewer(c)
		if viewer == nil {
			abortNotAuthenticated(c)
			return
		}

		var req likeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, "body", err)
			return
		}
		contentType, err := model.ParseFeedItemType(req.Type)
		if err != nil {
			abortInvalid(c, "type", err)
			return
		}

		liked, count, err := aggregator.ToggleLike(c.Request.Context(), viewer.Id, contentType, req.Id)
		if err != nil {
			respondError(c, err)
			return
		}

		if aggregator.Cache != nil {
			aggregator.Cache.Invalidate(c.Request.Context(), viewer.VillageID)
		}

		c.JSON(http.StatusOK, gin.H{"liked": liked, "count": count})
	}
}

// ListCommentsHandler serves GET /api/feed/comments, oldest-first.
func ListCommentsHandler(aggregator *feed.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		contentID := c.Query("id")
		if contentID == "" {
			abortInvalid(c, "id", errors.New("must not be empty"))
			return
		}
		contentType, err := model.ParseFeedItemType(c.Query("type"))
		if err != nil {
			abortInvalid(c, "type", err)
			return
		}

		comments, err := aggregator.ListComments(c.Request.Context(), contentType, contentID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comments": comments})
	}
}

type addCommentRequest struct {
	Id      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// AddCommentHandler serves POST /api/feed/comments.
func AddCommentHandler(aggregator *feed.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := middlewares.CurrentViewer(c)
		if viewer == nil {
			abortNotAuthenticated(c)
			return
		}

		var req addCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, "body", err)
			return
		}
		contentType, err := model.ParseFeedItemType(req.Type)
		if err != nil {
			abortInvalid(c, "type", err)
			return
		}

		comment, err := aggregator.AddComment(c.Request.Context(), viewer.Id, contentType, req.Id, req.Content)
		if err != nil {
			respondError(c, err)
			return
		}

		if aggregator.Cache != nil {
			aggregator.Cache.Invalidate(c.Request.Context(), viewer.VillageID)
		}

		c.JSON(http.StatusCreated, comment)
	}
}

func positiveIntParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errors.New("must be a non-negative integer")
	}
	return value, nil
}

func parseTypesFilter(raw string) ([]model.FeedItemType, error) {
	if raw == "" {
		return nil, nil
	}
	var types []model.FeedItemType
	for _, part := range strings.Split(raw, ",") {
		t, err := model.ParseFeedItemType(part)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func abortInvalid(c *gin.Context, field string, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"code":  ErrorInvalidArgument,
		"field": field,
		"msg":   err.Error(),
	})
}

func abortNotAuthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": ErrorNotAuthenticated,
		"msg":  "sign in to do this",
	})
}

// respondError maps the feed error taxonomy onto HTTP statuses. Storage
// errors stay server-side: logged in full, generic message to the client.
func respondError(c *gin.Context, err error) {
	var validation *feed.ValidationError

	switch {
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"code":  ErrorInvalidArgument,
			"field": validation.Field,
			"msg":   validation.Error(),
		})
	case errors.Is(err, feed.ErrNotAuthenticated):
		abortNotAuthenticated(c)
	case errors.Is(err, feed.ErrContentNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"code": ErrorNotFound,
			"msg":  "content not found",
		})
	case errors.Is(err, feed.ErrUnsupportedComment):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"code": ErrorUnsupported,
			"msg":  "this content type does not support comments",
		})
	default:
		Logger.Log.Error("request failed: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code": ErrorInternal,
			"msg":  "something went wrong",
		})
	}
}
