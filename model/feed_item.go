package model

import (
	"fmt"
	"strings"
	"time"
)

// FeedItemType is the closed enumeration of content types that can show up
// in the unified feed. ALERT and OFFICIAL are two presentations of the same
// store: an alert row with IsOfficial=true surfaces as OFFICIAL.
type FeedItemType string

const (
	FeedItemTypeGeneralPost      FeedItemType = "GENERAL_POST"
	FeedItemTypeAlert            FeedItemType = "ALERT"
	FeedItemTypeOfficial         FeedItemType = "OFFICIAL"
	FeedItemTypeBusinessPost     FeedItemType = "BUSINESS_POST"
	FeedItemTypeAssociationPost  FeedItemType = "ASSOCIATION_POST"
	FeedItemTypeListing          FeedItemType = "LISTING"
	FeedItemTypeEvent            FeedItemType = "EVENT"
	FeedItemTypeAssociationEvent FeedItemType = "ASSOCIATION_EVENT"
)

var AllFeedItemTypes = []FeedItemType{
	FeedItemTypeGeneralPost,
	FeedItemTypeAlert,
	FeedItemTypeOfficial,
	FeedItemTypeBusinessPost,
	FeedItemTypeAssociationPost,
	FeedItemTypeListing,
	FeedItemTypeEvent,
	FeedItemTypeAssociationEvent,
}

func (t FeedItemType) IsValid() bool {
	switch t {
	case FeedItemTypeGeneralPost, FeedItemTypeAlert, FeedItemTypeOfficial,
		FeedItemTypeBusinessPost, FeedItemTypeAssociationPost,
		FeedItemTypeListing, FeedItemTypeEvent, FeedItemTypeAssociationEvent:
		return true
	}
	return false
}

func (t FeedItemType) String() string {
	return string(t)
}

// StorageType maps a presentation type to the store it reads from and to the
// like ledger key it mutates. Only OFFICIAL is folded, everything else is
// its own store.
func (t FeedItemType) StorageType() FeedItemType {
	if t == FeedItemTypeOfficial {
		return FeedItemTypeAlert
	}
	return t
}

// ParseFeedItemType parses a client-provided type name, case-insensitively.
func ParseFeedItemType(s string) (FeedItemType, error) {
	t := FeedItemType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%q is not a valid feed item type", s)
	}
	return t, nil
}

// AuthorKind discriminates the polymorphic feed author.
type AuthorKind string

const (
	AuthorKindUser        AuthorKind = "USER"
	AuthorKindBusiness    AuthorKind = "BUSINESS"
	AuthorKindAssociation AuthorKind = "ASSOCIATION"
	AuthorKindSystem      AuthorKind = "SYSTEM"
)

type MediaKind string

const (
	MediaKindPhoto MediaKind = "PHOTO"
	MediaKindVideo MediaKind = "VIDEO"
	MediaKindNone  MediaKind = "NONE"
)

/*

FeedItem is the synthesized projection the aggregator hands to clients.
It is never persisted; it is recomputed on every read.

Id: composite "<prefix>_<originalId>", unique across all merged stores
OriginalId: native id of the source row. All mutation calls (likes and
		comments) reference the origin store through this id, never through
		the synthetic feed id.
Type: closed enumeration, see FeedItemType
CreatedAt: sole sort key across all merged streams

Author: tagged union resolved from whichever relation the source row
		carries, see AuthorKind. Never an inheritance hierarchy.
Content: shared display fields
Metrics: like/comment counters plus the viewer's own like state
Metadata: per-type variant payload, exactly one pointer is set depending on
		Type (nil for plain posts)

*/

type FeedItem struct {
	Id         string        `json:"id"`
	OriginalId string        `json:"originalId"`
	Type       FeedItemType  `json:"type"`
	CreatedAt  time.Time     `json:"createdAt"`
	Author     *FeedAuthor   `json:"author"`
	Content    *FeedContent  `json:"content"`
	Metrics    *FeedMetrics  `json:"metrics"`
	Metadata   *FeedMetadata `json:"metadata,omitempty"`
}

type FeedAuthor struct {
	Id        string     `json:"id"`
	Name      string     `json:"displayName"`
	AvatarUrl *string    `json:"avatarUrl,omitempty"`
	Kind      AuthorKind `json:"kind"`
	Subline   string     `json:"subline,omitempty"`
}

type FeedContent struct {
	Title     *string   `json:"title,omitempty"`
	Text      string    `json:"text"`
	MediaUrl  *string   `json:"mediaUrl,omitempty"`
	MediaKind MediaKind `json:"mediaKind"`
}

type FeedMetrics struct {
	LikeCount       int64 `json:"likeCount"`
	CommentCount    int64 `json:"commentCount"`
	IsLikedByViewer bool  `json:"isLikedByViewer"`
}

// FeedMetadata is the per-type extension bag. It is a variant keyed by
// FeedItem.Type, not a shared schema: at most one field is non-nil.
type FeedMetadata struct {
	Alert   *AlertMetadata   `json:"alert,omitempty"`
	Listing *ListingMetadata `json:"listing,omitempty"`
	Event   *EventMetadata   `json:"event,omitempty"`
}

type AlertMetadata struct {
	Kind     string        `json:"kind"`
	Severity AlertSeverity `json:"severity"`
	Status   AlertStatus   `json:"status"`
}

type ListingMetadata struct {
	PriceCents int64  `json:"priceCents"`
	Category   string `json:"category"`
}

type EventMetadata struct {
	StartsAt time.Time `json:"startsAt"`
	Location string    `json:"location,omitempty"`
}

// FeedPage is one slice of the merged feed.
type FeedPage struct {
	Items   []*FeedItem `json:"items"`
	HasMore bool        `json:"hasMore"`
}

// FeedComment is the API projection of a comment row from any of the three
// comment stores.
type FeedComment struct {
	Id        string      `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Author    *FeedAuthor `json:"author"`
}
