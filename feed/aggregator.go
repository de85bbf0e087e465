package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/dorfnet/dorfnet/model"
	"github.com/dorfnet/dorfnet/utils"
	Logger "github.com/dorfnet/dorfnet/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	// overfetchFactor bounds how much tail each store contributes per fetch.
	// Doubling the page size is a heuristic, not a proof: under heavy skew a
	// page can still under-fill.
	overfetchFactor = 2

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Aggregator is the unified feed engine. It is stateless and request-scoped:
// every read recomputes the projection from the seven content stores, with
// an optional short-TTL cache bolted on the side.
type Aggregator struct {
	DB     *gorm.DB
	Cache  *FeedCache     // optional, nil disables caching
	Statsd *statsd.Client // optional, nil disables metrics
}

func NewAggregator(db *gorm.DB, cache *FeedCache, stats *statsd.Client) *Aggregator {
	return &Aggregator{DB: db, Cache: cache, Statsd: stats}
}

// FeedQuery describes one page request against the merged feed.
// Offset/PageSize are the canonical pagination scheme; the HTTP layer
// reconciles page-number style onto Offset before calling in.
type FeedQuery struct {
	Offset    int
	PageSize  int
	Types     []model.FeedItemType // empty means all types
	VillageID string
	ViewerID  string // empty means anonymous
}

func (q *FeedQuery) sanitize() error {
	if q.Offset < 0 {
		return &ValidationError{Field: "offset", Reason: "must not be negative"}
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	for _, t := range q.Types {
		if !t.IsValid() {
			return &ValidationError{Field: "types", Reason: string(t) + " is not a feed item type"}
		}
	}
	return nil
}

// candidateSet holds the raw rows collected from the per-store overfetch,
// before normalization.
type candidateSet struct {
	posts             []*model.Post
	alerts            []*model.Alert
	businessPosts     []*model.BusinessPost
	associationPosts  []*model.AssociationPost
	listings          []*model.Listing
	events            []*model.Event
	associationEvents []*model.AssociationEvent
}

// GetFeed merges the seven content stores into one reverse-chronological
// page. Any single store failure fails the whole read: a partial feed would
// silently hide content, which is worse than a retryable error.
func (a *Aggregator) GetFeed(ctx context.Context, query FeedQuery) (*model.FeedPage, error) {
	if err := query.sanitize(); err != nil {
		return nil, err
	}

	if a.Cache != nil {
		if page, ok := a.Cache.Get(ctx, query); ok {
			a.incr("feed.cache.hit")
			return page, nil
		}
		a.incr("feed.cache.miss")
	}

	start := time.Now()

	candidates, err := a.fetchCandidates(ctx, query)
	if err != nil {
		return nil, err
	}

	idx, err := loadLikeMetrics(ctx, a.DB, collectLikeKeys(candidates), query.ViewerID)
	if err != nil {
		return nil, err
	}

	items := normalizeCandidates(candidates, idx, query.Types)

	// Sole sort key across all streams. Ties keep concatenation order; the
	// relative order of equal timestamps is an explicit non-guarantee.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	pageStart := utils.Min(query.Offset, len(items))
	hasMore := pageStart+query.PageSize < len(items)
	pageEnd := utils.Min(pageStart+query.PageSize, len(items))

	page := &model.FeedPage{
		Items:   items[pageStart:pageEnd],
		HasMore: hasMore,
	}

	a.timing("feed.aggregate.latency", time.Since(start))

	if a.Cache != nil {
		a.Cache.Set(ctx, query, page)
	}

	return page, nil
}

// fetchCandidates fans out one query per enabled store, all scoped to the
// village and capped by the overfetch bound, and awaits them together. The
// first store error aborts the aggregation.
func (a *Aggregator) fetchCandidates(ctx context.Context, query FeedQuery) (*candidateSet, error) {
	// Deep pages need at least offset+pageSize of each store's tail for the
	// post-merge slice to be coherent.
	limit := overfetchFactor*query.PageSize + query.Offset
	enabled := enabledStorageTypes(query.Types)

	candidates := &candidateSet{}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	fetch := func(store string, fn func(tx *gorm.DB) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx := a.DB.WithContext(ctx).
				Where("village_id = ?", query.VillageID).
				Order("created_at desc").
				Limit(limit)
			err := fn(tx)
			if err == nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "feed aggregation failed on %s store", store)
			}
		}()
	}

	if enabled[model.FeedItemTypeGeneralPost] {
		fetch("post", func(tx *gorm.DB) error {
			return tx.Preload("Author").Preload("Comments").Find(&candidates.posts).Error
		})
	}
	if enabled[model.FeedItemTypeAlert] {
		official, restricted := alertOfficialFilter(query.Types)
		fetch("alert", func(tx *gorm.DB) error {
			if restricted {
				// Keep the shared overfetch window from being eaten by rows
				// of the presentation the filter is about to drop anyway.
				tx = tx.Where("is_official = ?", official)
			}
			return tx.Preload("Reporter").Find(&candidates.alerts).Error
		})
	}
	if enabled[model.FeedItemTypeBusinessPost] {
		fetch("business post", func(tx *gorm.DB) error {
			return tx.Preload("Business").Preload("Comments").Find(&candidates.businessPosts).Error
		})
	}
	if enabled[model.FeedItemTypeAssociationPost] {
		fetch("association post", func(tx *gorm.DB) error {
			return tx.Preload("Association").Preload("Comments").Find(&candidates.associationPosts).Error
		})
	}
	if enabled[model.FeedItemTypeListing] {
		fetch("listing", func(tx *gorm.DB) error {
			return tx.Preload("Seller").Find(&candidates.listings).Error
		})
	}
	if enabled[model.FeedItemTypeEvent] {
		fetch("event", func(tx *gorm.DB) error {
			return tx.Preload("Organizer").Find(&candidates.events).Error
		})
	}
	if enabled[model.FeedItemTypeAssociationEvent] {
		fetch("association event", func(tx *gorm.DB) error {
			return tx.Preload("Association").Find(&candidates.associationEvents).Error
		})
	}

	wg.Wait()

	if firstErr != nil {
		Logger.Log.Error("feed aggregation aborted: ", firstErr)
		a.incr("feed.aggregate.failure")
		return nil, firstErr
	}
	return candidates, nil
}

// enabledStorageTypes maps the requested presentation types onto the stores
// that must be queried. ALERT and OFFICIAL both read the alert store; the
// split happens after normalization. An empty filter enables everything.
func enabledStorageTypes(requested []model.FeedItemType) map[model.FeedItemType]bool {
	enabled := map[model.FeedItemType]bool{}
	if len(requested) == 0 {
		for _, t := range model.AllFeedItemTypes {
			enabled[t.StorageType()] = true
		}
		return enabled
	}
	for _, t := range requested {
		enabled[t.StorageType()] = true
	}
	return enabled
}

// alertOfficialFilter reports whether the alert store query can be narrowed
// to one side of the ALERT/OFFICIAL split. Both presentations share the
// store, so when the type filter names only one of the pair the other side's
// rows would consume overfetch budget and then be dropped after
// normalization anyway.
func alertOfficialFilter(requested []model.FeedItemType) (official bool, restricted bool) {
	if len(requested) == 0 {
		return false, false
	}
	wantAlert, wantOfficial := false, false
	for _, t := range requested {
		switch t {
		case model.FeedItemTypeAlert:
			wantAlert = true
		case model.FeedItemTypeOfficial:
			wantOfficial = true
		}
	}
	if wantAlert == wantOfficial {
		return false, false
	}
	return wantOfficial, true
}

func collectLikeKeys(c *candidateSet) []likeKey {
	keys := []likeKey{}
	for _, row := range c.posts {
		keys = append(keys, likeKey{model.FeedItemTypeGeneralPost, row.Id})
	}
	for _, row := range c.alerts {
		keys = append(keys, likeKey{model.FeedItemTypeAlert, row.Id})
	}
	for _, row := range c.businessPosts {
		keys = append(keys, likeKey{model.FeedItemTypeBusinessPost, row.Id})
	}
	for _, row := range c.associationPosts {
		keys = append(keys, likeKey{model.FeedItemTypeAssociationPost, row.Id})
	}
	for _, row := range c.listings {
		keys = append(keys, likeKey{model.FeedItemTypeListing, row.Id})
	}
	for _, row := range c.events {
		keys = append(keys, likeKey{model.FeedItemTypeEvent, row.Id})
	}
	for _, row := range c.associationEvents {
		keys = append(keys, likeKey{model.FeedItemTypeAssociationEvent, row.Id})
	}
	return keys
}

// normalizeCandidates maps every candidate row into a FeedItem and applies
// the presentation-type filter. The concatenation order here is what breaks
// timestamp ties after the stable sort.
func normalizeCandidates(c *candidateSet, idx *likeIndex, requested []model.FeedItemType) []*model.FeedItem {
	want := map[model.FeedItemType]bool{}
	for _, t := range requested {
		want[t] = true
	}
	all := len(requested) == 0

	items := []*model.FeedItem{}
	add := func(item *model.FeedItem) {
		if all || want[item.Type] {
			items = append(items, item)
		}
	}

	for _, row := range c.posts {
		add(feedItemFromPost(row, idx))
	}
	for _, row := range c.alerts {
		add(feedItemFromAlert(row, idx))
	}
	for _, row := range c.businessPosts {
		add(feedItemFromBusinessPost(row, idx))
	}
	for _, row := range c.associationPosts {
		add(feedItemFromAssociationPost(row, idx))
	}
	for _, row := range c.listings {
		add(feedItemFromListing(row, idx))
	}
	for _, row := range c.events {
		add(feedItemFromEvent(row, idx))
	}
	for _, row := range c.associationEvents {
		add(feedItemFromAssociationEvent(row, idx))
	}
	return items
}
