package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dorfnet/dorfnet/model"
	Logger "github.com/dorfnet/dorfnet/utils/log"
	"github.com/go-redis/redis/v8"
)

const (
	// Feed pages are cheap to recompute; the cache only has to absorb
	// repeated fetches from scrolling clients, so the TTL stays short.
	feedCacheTTL = 15 * time.Second
)

// FeedCache is an explicit external collaborator, not part of the
// aggregation contract: the aggregator behaves identically with a nil cache.
// Invalidation is village-wide through a version counter so a single INCR
// drops every cached page in scope without any key scan.
type FeedCache struct {
	inner *redis.Client
	ttl   time.Duration
}

func NewFeedCache() *FeedCache {
	return &FeedCache{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		}),
		ttl: feedCacheTTL,
	}
}

func versionKey(villageID string) string {
	return "feed_version_" + villageID
}

func (c *FeedCache) version(ctx context.Context, villageID string) string {
	version, err := c.inner.Get(ctx, versionKey(villageID)).Result()
	if err != nil {
		// Missing counter and unreachable redis both read as version 0; the
		// worst case is a cache miss.
		return "0"
	}
	return version
}

func (c *FeedCache) pageKey(ctx context.Context, query FeedQuery) string {
	types := make([]string, 0, len(query.Types))
	for _, t := range query.Types {
		types = append(types, string(t))
	}
	sort.Strings(types)

	return fmt.Sprintf("feed_%s_v%s_%s_%d_%d_%s",
		query.VillageID,
		c.version(ctx, query.VillageID),
		strings.Join(types, ","),
		query.Offset,
		query.PageSize,
		query.ViewerID,
	)
}

func (c *FeedCache) Get(ctx context.Context, query FeedQuery) (*model.FeedPage, bool) {
	raw, err := c.inner.Get(ctx, c.pageKey(ctx, query)).Bytes()
	if err != nil {
		return nil, false
	}
	var page model.FeedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		Logger.Log.Warn("fail to decode cached feed page: ", err)
		return nil, false
	}
	return &page, true
}

func (c *FeedCache) Set(ctx context.Context, query FeedQuery, page *model.FeedPage) {
	raw, err := json.Marshal(page)
	if err != nil {
		Logger.Log.Warn("fail to encode feed page for cache: ", err)
		return
	}
	if err := c.inner.Set(ctx, c.pageKey(ctx, query), raw, c.ttl).Err(); err != nil {
		Logger.Log.Warn("fail to cache feed page: ", err)
	}
}

// Invalidate drops every cached page of a village by bumping its version.
// Called by the mutation endpoints after any like or comment write in scope.
func (c *FeedCache) Invalidate(ctx context.Context, villageID string) {
	if err := c.inner.Incr(ctx, versionKey(villageID)).Err(); err != nil {
		Logger.Log.Warn("fail to invalidate feed cache for village ", villageID, ": ", err)
	}
}
