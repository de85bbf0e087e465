package feed

import (
	"testing"
	"time"

	"github.com/dorfnet/dorfnet/model"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestFirstPhoto(t *testing.T) {
	require.Nil(t, firstPhoto(nil))
	require.Nil(t, firstPhoto(datatypes.JSON([]byte(``))))
	require.Nil(t, firstPhoto(datatypes.JSON([]byte(`[]`))))
	require.Nil(t, firstPhoto(datatypes.JSON([]byte(`null`))))
	require.Nil(t, firstPhoto(datatypes.JSON([]byte(`not json`))))
	require.Nil(t, firstPhoto(datatypes.JSON([]byte(`[""]`))))

	photo := firstPhoto(datatypes.JSON([]byte(`["https://img.example/a.jpg","https://img.example/b.jpg"]`)))
	require.NotNil(t, photo)
	require.Equal(t, "https://img.example/a.jpg", *photo)
}

func TestFeedItemId(t *testing.T) {
	require.Equal(t, "alert_42", feedItemId(model.FeedItemTypeAlert, "42"))
	require.Equal(t, "general_post_abc", feedItemId(model.FeedItemTypeGeneralPost, "abc"))
	require.Equal(t, "official_42", feedItemId(model.FeedItemTypeOfficial, "42"))
}

func TestBusinessAuthorPolymorphism(t *testing.T) {
	idx := &likeIndex{counts: map[likeKey]int64{}, viewerLiked: map[likeKey]bool{}}

	post := &model.BusinessPost{
		Id:        "bp1",
		CreatedAt: time.Now(),
		Content:   "fresh bread",
		Business: model.Business{
			Id:       "b1",
			Name:     "Old Mill Bakery",
			Category: "bakery",
			Photos:   datatypes.JSON([]byte(`["https://img.example/mill.jpg"]`)),
		},
	}

	item := feedItemFromBusinessPost(post, idx)
	require.Equal(t, model.FeedItemTypeBusinessPost, item.Type)
	require.Equal(t, model.AuthorKindBusiness, item.Author.Kind)
	require.Equal(t, "Old Mill Bakery", item.Author.Name)
	require.NotNil(t, item.Author.AvatarUrl)
	require.Equal(t, "https://img.example/mill.jpg", *item.Author.AvatarUrl)

	// no photos means no avatar, not an error
	post.Business.Photos = datatypes.JSON([]byte(`[]`))
	item = feedItemFromBusinessPost(post, idx)
	require.Nil(t, item.Author.AvatarUrl)
}

func TestAlertOfficialSplit(t *testing.T) {
	idx := &likeIndex{counts: map[likeKey]int64{}, viewerLiked: map[likeKey]bool{}}

	alert := &model.Alert{
		Id:        "a1",
		CreatedAt: time.Now(),
		Title:     "road closed",
		Content:   "main street is closed",
		Kind:      "traffic",
		Severity:  model.AlertSeverityWarning,
		Status:    model.AlertStatusActive,
		Reporter:  model.User{Id: "u1", Name: "Hans"},
		VillageID: "v1",
	}

	item := feedItemFromAlert(alert, idx)
	require.Equal(t, model.FeedItemTypeAlert, item.Type)
	require.Equal(t, model.AuthorKindUser, item.Author.Kind)
	require.Equal(t, "Hans", item.Author.Name)
	require.NotNil(t, item.Metadata)
	require.Equal(t, model.AlertSeverityWarning, item.Metadata.Alert.Severity)

	alert.IsOfficial = true
	item = feedItemFromAlert(alert, idx)
	require.Equal(t, model.FeedItemTypeOfficial, item.Type)
	require.Equal(t, model.AuthorKindSystem, item.Author.Kind)
	require.Equal(t, "official_a1", item.Id)
	// the ledger key does not change with the presentation
	require.Equal(t, int64(0), item.Metrics.LikeCount)
}

func TestEnabledStorageTypes(t *testing.T) {
	all := enabledStorageTypes(nil)
	require.Len(t, all, 7) // OFFICIAL folds into ALERT
	require.True(t, all[model.FeedItemTypeAlert])
	require.False(t, all[model.FeedItemTypeOfficial])

	only := enabledStorageTypes([]model.FeedItemType{model.FeedItemTypeOfficial, model.FeedItemTypeListing})
	require.Len(t, only, 2)
	require.True(t, only[model.FeedItemTypeAlert])
	require.True(t, only[model.FeedItemTypeListing])
}
