package feed

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dorfnet/dorfnet/model"
	"gorm.io/datatypes"
)

// feedItemId namespaces a source row id by its presentation type, which
// guarantees uniqueness across the merged streams, e.g. "alert_<id>".
func feedItemId(t model.FeedItemType, originalId string) string {
	return fmt.Sprintf("%s_%s", strings.ToLower(string(t)), originalId)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mediaKindOrNone(kind model.MediaKind) model.MediaKind {
	if kind == "" {
		return model.MediaKindNone
	}
	return kind
}

// firstPhoto implements the decode-first-or-nil rule for organization
// avatars: the avatar is the first entry of the JSON-encoded photo array,
// or nil when the column is absent, malformed, the empty-array sentinel,
// or holds an empty string.
func firstPhoto(photos datatypes.JSON) *string {
	if len(photos) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(photos, &urls); err != nil {
		return nil
	}
	if len(urls) == 0 || urls[0] == "" {
		return nil
	}
	return &urls[0]
}

func userAuthor(user *model.User, subline string) *model.FeedAuthor {
	return &model.FeedAuthor{
		Id:        user.Id,
		Name:      user.Name,
		AvatarUrl: optionalString(user.AvatarUrl),
		Kind:      model.AuthorKindUser,
		Subline:   subline,
	}
}

func businessAuthor(business *model.Business) *model.FeedAuthor {
	return &model.FeedAuthor{
		Id:        business.Id,
		Name:      business.Name,
		AvatarUrl: firstPhoto(business.Photos),
		Kind:      model.AuthorKindBusiness,
		Subline:   business.Category,
	}
}

func associationAuthor(association *model.Association) *model.FeedAuthor {
	return &model.FeedAuthor{
		Id:        association.Id,
		Name:      association.Name,
		AvatarUrl: firstPhoto(association.Photos),
		Kind:      model.AuthorKindAssociation,
		Subline:   "association",
	}
}

// systemAuthor is the presentation used for official announcements: the
// village administration, not the account that happened to publish the row.
func systemAuthor(alert *model.Alert) *model.FeedAuthor {
	return &model.FeedAuthor{
		Id:      alert.VillageID,
		Name:    "Village office",
		Kind:    model.AuthorKindSystem,
		Subline: alert.Kind,
	}
}

func feedItemFromPost(post *model.Post, idx *likeIndex) *model.FeedItem {
	key := likeKey{ContentType: model.FeedItemTypeGeneralPost, ContentID: post.Id}
	return &model.FeedItem{
		Id:         feedItemId(model.FeedItemTypeGeneralPost, post.Id),
		OriginalId: post.Id,
		Type:       model.FeedItemTypeGeneralPost,
		CreatedAt:  post.CreatedAt,
		Author:     userAuthor(&post.Author, ""),
		Content: &model.FeedContent{
			Text:      post.Content,
			MediaUrl:  optionalString(post.MediaUrl),
			MediaKind: mediaKindOrNone(post.MediaKind),
		},
		Metrics: buildMetrics(idx, key, int64(len(post.Comments))),
	}
}

func feedItemFromAlert(alert *model.Alert, idx *likeIndex) *model.FeedItem {
	// The ledger only knows the ALERT storage type regardless of how the
	// row presents.
	key := likeKey{ContentType: model.FeedItemTypeAlert, ContentID: alert.Id}

	presentation := model.FeedItemTypeAlert
	author := userAuthor(&alert.Reporter, "")
	if alert.IsOfficial {
		presentation = model.FeedItemTypeOfficial
		author = systemAuthor(alert)
	}

	return &model.FeedItem{
		Id:         feedItemId(presentation, alert.Id),
		OriginalId: alert.Id,
		Type:       presentation,
		CreatedAt:  alert.CreatedAt,
		Author:     author,
		Content: &model.FeedContent{
			Title:     optionalString(alert.Title),
			Text:      alert.Content,
			MediaKind: model.MediaKindNone,
		},
		Metrics: buildMetrics(idx, key, 0),
		Metadata: &model.FeedMetadata{
			Alert: &model.AlertMetadata{
				Kind:     alert.Kind,
				Severity: alert.Severity,
				Status:   alert.Status,
			},
		},
	}
}

func feedItemFromBusinessPost(post *model.BusinessPost, idx *likeIndex) *model.FeedItem {
	key := likeKey{ContentType: model.FeedItemTypeBusinessPost, ContentID: post.Id}
	return &model.FeedItem{
		Id:         feedItemId(model.FeedItemTypeBusinessPost, post.Id),
		OriginalId: post.Id,
		Type:       model.FeedItemTypeBusinessPost,
		CreatedAt:  post.CreatedAt,
		Author:     businessAuthor(&post.Business),
		Content: &model.FeedContent{
			Title:     optionalString(post.Title),
			Text:      post.Content,
			MediaUrl:  optionalString(post.MediaUrl),
			MediaKind: mediaKindOrNone(post.MediaKind),
		},
		Metrics: buildMetrics(idx, key, int64(len(post.Comments))),
	}
}

func feedItemFromAssociationPost(post *model.AssociationPost, idx *likeIndex) *model.FeedItem {
	key := likeKey{ContentType: model.FeedItemTypeAssociationPost, ContentID: post.Id}
	return &model.FeedItem{
		Id:         feedItemId(model.FeedItemTypeAssociationPost, post.Id),
		OriginalId: post.Id,
		Type:       model.FeedItemTypeAssociationPost,
		CreatedAt:  post.CreatedAt,
		Author:     associationAuthor(&post.Association),
		Content: &model.FeedContent{
			Title:     optionalString(post.Title),
			Text:      post.Content,
			MediaUrl:  optionalString(post.MediaUrl),
			MediaKind: mediaKindOrNone(post.MediaKind),
		},
		Metrics: buildMetrics(idx, key, int64(len(post.Comments))),
	}
}

func feedItemFromListing(listing *model.Listing, idx *likeIndex) *model.FeedItem {
	key := likeKey{ContentType: model.FeedItemTypeListing, ContentID: listing.Id}
	return &model.FeedItem{
		Id:         feedItemId(model.FeedItemTypeListing, listing.Id),
		OriginalId: listing.Id,
		Type:       model.FeedItemTypeListing,
		CreatedAt:  listing.CreatedAt,
		Author:     userAuthor(&listing.Seller, ""),
		Content: &model.FeedContent{
			Title:     optionalString(listing.Title),
			Text:      listing.Description,
			MediaUrl:  optionalString(listing.MediaUrl),
			MediaKind: mediaKindOrNone(listing.MediaKind),
		},
		Metrics: buildMetrics(idx, key, 0),
		Metadata: &model.FeedMetadata{
			Listing: &model.ListingMetadata{
				PriceCents: listing.PriceCents,
				Category:   listing.Category,
			},
		},
	}
}

func feedItemFromEvent(event *model.Event, idx *likeIndex) *model.FeedItem {
	key := likeKey{ContentType: model.FeedItemTypeEvent, ContentID: event.Id}
	return &model.FeedItem{
		Id:         feedItemId(model.FeedItemTypeEvent, event.Id),
		OriginalId: event.Id,
		Type:       model.FeedItemTypeEvent,
		CreatedAt:  event.CreatedAt,
		Author:     userAuthor(&event.Organizer, ""),
		Content: &model.FeedContent{
			Title:     optionalString(event.Title),
			Text:      event.Description,
			MediaUrl:  optionalString(event.MediaUrl),
			MediaKind: mediaKindOrNone(event.MediaKind),
		},
		Metrics: buildMetrics(idx, key, 0),
		Metadata: &model.FeedMetadata{
			Event: &model.EventMetadata{
				StartsAt: event.StartsAt,
				Location: event.Location,
			},
		},
	}
}

func feedItemFromAssociationEvent(event *model.AssociationEvent, idx *likeIndex) *model.FeedItem {
	key := likeKey{ContentType: model.FeedItemTypeAssociationEvent, ContentID: event.Id}
	return &model.FeedItem{
		Id:         feedItemId(model.FeedItemTypeAssociationEvent, event.Id),
		OriginalId: event.Id,
		Type:       model.FeedItemTypeAssociationEvent,
		CreatedAt:  event.CreatedAt,
		Author:     associationAuthor(&event.Association),
		Content: &model.FeedContent{
			Title:     optionalString(event.Title),
			Text:      event.Description,
			MediaUrl:  optionalString(event.MediaUrl),
			MediaKind: mediaKindOrNone(event.MediaKind),
		},
		Metrics: buildMetrics(idx, key, 0),
		Metadata: &model.FeedMetadata{
			Event: &model.EventMetadata{
				StartsAt: event.StartsAt,
				Location: event.Location,
			},
		},
	}
}

func buildMetrics(idx *likeIndex, key likeKey, commentCount int64) *model.FeedMetrics {
	return &model.FeedMetrics{
		LikeCount:       idx.count(key),
		CommentCount:    commentCount,
		IsLikedByViewer: idx.likedByViewer(key),
	}
}
