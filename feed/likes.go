package feed

import (
	"context"

	"github.com/dorfnet/dorfnet/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// likeKey addresses one row of the like ledger. ContentType is always a
// storage type, never OFFICIAL.
type likeKey struct {
	ContentType model.FeedItemType
	ContentID   string
}

// likeIndex is the in-memory view of the ledger for one aggregation pass:
// a count per key plus the set of keys the viewer has liked.
type likeIndex struct {
	counts      map[likeKey]int64
	viewerLiked map[likeKey]bool
}

func (idx *likeIndex) count(key likeKey) int64 {
	return idx.counts[key]
}

func (idx *likeIndex) likedByViewer(key likeKey) bool {
	return idx.viewerLiked[key]
}

// loadLikeMetrics fetches every ledger row for the candidate key set in a
// single query and aggregates in memory. This is the only globally batched
// metrics step; going per-item instead would be an N+1 on every feed read.
// viewerID may be empty, in which case viewerLiked stays empty.
func loadLikeMetrics(ctx context.Context, db *gorm.DB, keys []likeKey, viewerID string) (*likeIndex, error) {
	idx := &likeIndex{
		counts:      map[likeKey]int64{},
		viewerLiked: map[likeKey]bool{},
	}
	if len(keys) == 0 {
		return idx, nil
	}

	pairs := make([][]interface{}, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, []interface{}{key.ContentType, key.ContentID})
	}

	var rows []*model.Like
	if err := db.WithContext(ctx).
		Where("(content_type, content_id) IN ?", pairs).
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to batch load like metrics")
	}

	for _, row := range rows {
		key := likeKey{ContentType: row.ContentType, ContentID: row.ContentID}
		idx.counts[key]++
		if viewerID != "" && row.UserID == viewerID {
			idx.viewerLiked[key] = true
		}
	}

	return idx, nil
}
