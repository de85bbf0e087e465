package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dorfnet/dorfnet/feed"
	"github.com/dorfnet/dorfnet/model"
	"github.com/dorfnet/dorfnet/server/middlewares"
	"github.com/dorfnet/dorfnet/utils"
	"github.com/dorfnet/dorfnet/utils/dotenv"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middlewares.Viewer(db))
	RegisterRoutes(router, feed.NewAggregator(db, nil, nil))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, target, sub string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if sub != "" {
		req.Header.Set("sub", sub)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

type feedResponse struct {
	Items   []*model.FeedItem `json:"items"`
	HasMore bool              `json:"hasMore"`
	Page    int               `json:"page"`
	Offset  int               `json:"offset"`
	Limit   int               `json:"limit"`
}

func seedFeed(t *testing.T, db *gorm.DB) (*model.Village, *model.User, *model.Post) {
	t.Helper()
	base := time.Date(2021, 7, 14, 12, 0, 0, 0, time.UTC)
	village := utils.TestCreateVillage(t, db, "kleinberg")
	user := utils.TestCreateUser(t, db, village, "hans")
	post := utils.TestCreatePost(t, db, user, "hello village", base)
	utils.TestCreateListing(t, db, user, "old bike", base.Add(time.Minute))
	utils.TestCreateAlert(t, db, user, "road closed", false, base.Add(2*time.Minute))
	return village, user, post
}

func TestFeedEndpointPageStyle(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	_, user, _ := seedFeed(t, db)
	router := newTestRouter(db)

	recorder := doJSON(t, router, http.MethodGet, "/api/feed?page=1&limit=2", user.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp feedResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	require.True(t, resp.HasMore)
	require.Equal(t, 1, resp.Page)
	require.Equal(t, 2, resp.Limit)
	require.Equal(t, "road closed", *resp.Items[0].Content.Title)
}

func TestFeedEndpointOffsetStyle(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	_, user, _ := seedFeed(t, db)
	router := newTestRouter(db)

	recorder := doJSON(t, router, http.MethodGet, "/api/feed?offset=2&limit=2", user.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp feedResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.False(t, resp.HasMore)
	require.Equal(t, 2, resp.Offset)
}

func TestFeedEndpointAnonymousWithVillageParam(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	village, _, _ := seedFeed(t, db)
	router := newTestRouter(db)

	recorder := doJSON(t, router, http.MethodGet, "/api/feed?village="+village.Id, "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp feedResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)
	for _, item := range resp.Items {
		require.False(t, item.Metrics.IsLikedByViewer)
	}
}

func TestFeedEndpointLimitBounds(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	_, user, _ := seedFeed(t, db)
	router := newTestRouter(db)

	// zero is not a page size
	recorder := doJSON(t, router, http.MethodGet, "/api/feed?limit=0", user.Id, nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Contains(t, recorder.Body.String(), ErrorInvalidArgument)

	// an oversized limit is clamped before the page math and the response
	// echoes the effective value, so page N offsets line up with the pages
	// actually served
	recorder = doJSON(t, router, http.MethodGet, "/api/feed?limit=150", user.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var first feedResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &first))
	require.Equal(t, feed.MaxPageSize, first.Limit)
	require.Len(t, first.Items, 3)

	recorder = doJSON(t, router, http.MethodGet, "/api/feed?limit=150&page=2", user.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var second feedResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &second))
	require.Equal(t, feed.MaxPageSize, second.Limit)
	require.Equal(t, 2, second.Page)
	require.Empty(t, second.Items)
	require.False(t, second.HasMore)
}

func TestFeedEndpointStoreFailureIsInternal(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	_, user, _ := seedFeed(t, db)
	require.NoError(t, db.Exec("DROP TABLE listings").Error)
	router := newTestRouter(db)

	recorder := doJSON(t, router, http.MethodGet, "/api/feed", user.Id, nil)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Contains(t, recorder.Body.String(), ErrorInternal)
	// storage detail stays server-side
	require.NotContains(t, recorder.Body.String(), "listing")
}

func TestFeedEndpointRejectsBadTypesFilter(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	_, user, _ := seedFeed(t, db)
	router := newTestRouter(db)

	recorder := doJSON(t, router, http.MethodGet, "/api/feed?types=LISTING,NEWSLETTER", user.Id, nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Contains(t, recorder.Body.String(), ErrorInvalidArgument)
}

func TestLikeEndpointRequiresViewer(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	_, _, post := seedFeed(t, db)
	router := newTestRouter(db)

	recorder := doJSON(t, router, http.MethodPost, "/api/feed/like", "", map[string]string{
		"id":   post.Id,
		"type": string(model.FeedItemTypeGeneralPost),
	})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Contains(t, recorder.Body.String(), ErrorNotAuthenticated)
}

func TestLikeEndpointToggles(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	_, user, post := seedFeed(t, db)
	router := newTestRouter(db)

	body := map[string]string{
		"id":   post.Id,
		"type": string(model.FeedItemTypeGeneralPost),
	}

	recorder := doJSON(t, router, http.MethodPost, "/api/feed/like", user.Id, body)
	require.Equal(t, http.StatusOK, recorder.Code)
	var first struct {
		Liked bool  `json:"liked"`
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &first))
	require.True(t, first.Liked)
	require.Equal(t, int64(1), first.Count)

	recorder = doJSON(t, router, http.MethodPost, "/api/feed/like", user.Id, body)
	require.Equal(t, http.StatusOK, recorder.Code)
	var second struct {
		Liked bool  `json:"liked"`
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &second))
	require.False(t, second.Liked)
	require.Equal(t, int64(0), second.Count)
}

func TestCommentEndpoints(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	_, user, post := seedFeed(t, db)
	router := newTestRouter(db)

	recorder := doJSON(t, router, http.MethodPost, "/api/feed/comments", user.Id, map[string]string{
		"id":      post.Id,
		"type":    string(model.FeedItemTypeGeneralPost),
		"content": "looking good",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created model.FeedComment
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	require.Equal(t, "looking good", created.Content)
	require.Equal(t, "hans", created.Author.Name)

	target := fmt.Sprintf("/api/feed/comments?id=%s&type=%s", post.Id, model.FeedItemTypeGeneralPost)
	recorder = doJSON(t, router, http.MethodGet, target, "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var listed struct {
		Comments []*model.FeedComment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	require.Len(t, listed.Comments, 1)
	require.Equal(t, created.Id, listed.Comments[0].Id)
}

func TestCommentEndpointRejectsUnsupportedType(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	village := utils.TestCreateVillage(t, db, "kleinberg")
	user := utils.TestCreateUser(t, db, village, "hans")
	listing := utils.TestCreateListing(t, db, user, "old bike", time.Now())
	router := newTestRouter(db)

	recorder := doJSON(t, router, http.MethodPost, "/api/feed/comments", user.Id, map[string]string{
		"id":      listing.Id,
		"type":    string(model.FeedItemTypeListing),
		"content": "is this still available?",
	})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	require.Contains(t, recorder.Body.String(), ErrorUnsupported)

	var rows int64
	require.NoError(t, db.Model(&model.PostComment{}).Count(&rows).Error)
	require.Equal(t, int64(0), rows)
}
