package feed

import (
	"context"
	"strings"
	"time"

	"github.com/dorfnet/dorfnet/model"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleLike flips the viewer's like on a content row and returns the new
// state together with an authoritative count. The count comes from a fresh
// query, never from toggle-delta math, so concurrent double-clicks converge
// instead of drifting.
func (a *Aggregator) ToggleLike(ctx context.Context, viewerID string, contentType model.FeedItemType, contentID string) (liked bool, count int64, err error) {
	if viewerID == "" {
		return false, 0, ErrNotAuthenticated
	}
	if !contentType.IsValid() {
		return false, 0, &ValidationError{Field: "type", Reason: string(contentType) + " is not a feed item type"}
	}
	if contentID == "" {
		return false, 0, &ValidationError{Field: "id", Reason: "must not be empty"}
	}

	storageType := contentType.StorageType()

	var existing model.Like
	res := a.DB.WithContext(ctx).
		Where("user_id = ? AND content_type = ? AND content_id = ?", viewerID, storageType, contentID).
		First(&existing)

	switch {
	case res.Error == nil:
		// Unlike is a hard delete, the ledger keeps no history.
		if err := a.DB.WithContext(ctx).
			Delete(&model.Like{}, "user_id = ? AND content_type = ? AND content_id = ?", viewerID, storageType, contentID).
			Error; err != nil {
			return false, 0, errors.Wrap(err, "failed to remove like")
		}
		liked = false
	case errors.Is(res.Error, gorm.ErrRecordNotFound):
		like := model.Like{
			UserID:      viewerID,
			ContentType: storageType,
			ContentID:   contentID,
			CreatedAt:   time.Now(),
		}
		// A simultaneous like from the same user hits the composite key; DO
		// NOTHING degrades that race to "already liked" instead of an error.
		if err := a.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&like).Error; err != nil {
			return false, 0, errors.Wrap(err, "failed to record like")
		}
		liked = true
	default:
		return false, 0, errors.Wrap(res.Error, "failed to look up like")
	}

	if err := a.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("content_type = ? AND content_id = ?", storageType, contentID).
		Count(&count).Error; err != nil {
		return false, 0, errors.Wrap(err, "failed to count likes")
	}

	a.incr("feed.like.toggle", "type:"+string(storageType))
	return liked, count, nil
}

// AddComment appends a comment to one of the three comment-supporting
// stores. Alerts, listings and events have no comment store; asking for one
// is an ErrUnsupportedComment, never a silent no-op.
func (a *Aggregator) AddComment(ctx context.Context, viewerID string, contentType model.FeedItemType, contentID string, text string) (*model.FeedComment, error) {
	if viewerID == "" {
		return nil, ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	db := a.DB.WithContext(ctx)

	switch contentType {
	case model.FeedItemTypeGeneralPost:
		if err := ensureRowExists(db, &model.Post{}, contentID); err != nil {
			return nil, err
		}
		comment := &model.PostComment{
			Id:       uuid.New().String(),
			Content:  text,
			AuthorID: viewerID,
			PostID:   contentID,
		}
		if err := db.Create(comment).Error; err != nil {
			return nil, errors.Wrap(err, "failed to create post comment")
		}
		if err := db.Preload("Author").First(comment, "id = ?", comment.Id).Error; err != nil {
			return nil, errors.Wrap(err, "failed to reload post comment")
		}
		a.incr("feed.comment.add", "type:"+string(contentType))
		return toFeedComment(comment, &comment.Author)

	case model.FeedItemTypeBusinessPost:
		if err := ensureRowExists(db, &model.BusinessPost{}, contentID); err != nil {
			return nil, err
		}
		comment := &model.BusinessPostComment{
			Id:             uuid.New().String(),
			Content:        text,
			AuthorID:       viewerID,
			BusinessPostID: contentID,
		}
		if err := db.Create(comment).Error; err != nil {
			return nil, errors.Wrap(err, "failed to create business post comment")
		}
		if err := db.Preload("Author").First(comment, "id = ?", comment.Id).Error; err != nil {
			return nil, errors.Wrap(err, "failed to reload business post comment")
		}
		a.incr("feed.comment.add", "type:"+string(contentType))
		return toFeedComment(comment, &comment.Author)

	case model.FeedItemTypeAssociationPost:
		if err := ensureRowExists(db, &model.AssociationPost{}, contentID); err != nil {
			return nil, err
		}
		comment := &model.AssociationPostComment{
			Id:                uuid.New().String(),
			Content:           text,
			AuthorID:          viewerID,
			AssociationPostID: contentID,
		}
		if err := db.Create(comment).Error; err != nil {
			return nil, errors.Wrap(err, "failed to create association post comment")
		}
		if err := db.Preload("Author").First(comment, "id = ?", comment.Id).Error; err != nil {
			return nil, errors.Wrap(err, "failed to reload association post comment")
		}
		a.incr("feed.comment.add", "type:"+string(contentType))
		return toFeedComment(comment, &comment.Author)

	default:
		return nil, ErrUnsupportedComment
	}
}

// ListComments returns a row's comments oldest-first with authors joined.
// Same three-type support rule as AddComment.
func (a *Aggregator) ListComments(ctx context.Context, contentType model.FeedItemType, contentID string) ([]*model.FeedComment, error) {
	db := a.DB.WithContext(ctx)

	result := []*model.FeedComment{}

	switch contentType {
	case model.FeedItemTypeGeneralPost:
		var rows []*model.PostComment
		if err := db.Preload("Author").
			Where("post_id = ?", contentID).
			Order("created_at asc").
			Find(&rows).Error; err != nil {
			return nil, errors.Wrap(err, "failed to list post comments")
		}
		for _, row := range rows {
			comment, err := toFeedComment(row, &row.Author)
			if err != nil {
				return nil, err
			}
			result = append(result, comment)
		}

	case model.FeedItemTypeBusinessPost:
		var rows []*model.BusinessPostComment
		if err := db.Preload("Author").
			Where("business_post_id = ?", contentID).
			Order("created_at asc").
			Find(&rows).Error; err != nil {
			return nil, errors.Wrap(err, "failed to list business post comments")
		}
		for _, row := range rows {
			comment, err := toFeedComment(row, &row.Author)
			if err != nil {
				return nil, err
			}
			result = append(result, comment)
		}

	case model.FeedItemTypeAssociationPost:
		var rows []*model.AssociationPostComment
		if err := db.Preload("Author").
			Where("association_post_id = ?", contentID).
			Order("created_at asc").
			Find(&rows).Error; err != nil {
			return nil, errors.Wrap(err, "failed to list association post comments")
		}
		for _, row := range rows {
			comment, err := toFeedComment(row, &row.Author)
			if err != nil {
				return nil, err
			}
			result = append(result, comment)
		}

	default:
		return nil, ErrUnsupportedComment
	}

	return result, nil
}

func ensureRowExists(db *gorm.DB, dest interface{}, id string) error {
	res := db.Limit(1).Find(dest, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to look up content row")
	}
	if res.RowsAffected != 1 {
		return ErrContentNotFound
	}
	return nil
}

// toFeedComment projects any of the three comment rows onto the shared API
// shape. The three models deliberately share field names, copier does the
// plumbing.
func toFeedComment(row interface{}, author *model.User) (*model.FeedComment, error) {
	var comment model.FeedComment
	if err := copier.Copy(&comment, row); err != nil {
		return nil, errors.Wrap(err, "failed to map comment")
	}
	comment.Author = userAuthor(author, "")
	return &comment, nil
}
