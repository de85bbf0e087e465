package utils

import (
	"testing"
	"time"

	"github.com/dorfnet/dorfnet/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeding helpers shared by feed and server tests. The content CRUD surface
// is owned by other services, so tests write rows through the ORM directly.

func TestCreateVillage(t *testing.T, db *gorm.DB, name string) *model.Village {
	t.Helper()
	village := &model.Village{
		Id:   uuid.New().String(),
		Name: name,
		Slug: name + "-" + RandomAlphabetString(6),
	}
	require.NoError(t, db.Create(village).Error)
	return village
}

func TestCreateUser(t *testing.T, db *gorm.DB, village *model.Village, name string) *model.User {
	t.Helper()
	user := &model.User{
		Id:        uuid.New().String(),
		Name:      name,
		VillageID: village.Id,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreatePost(t *testing.T, db *gorm.DB, author *model.User, content string, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{
		Id:        uuid.New().String(),
		CreatedAt: createdAt,
		Content:   content,
		MediaKind: model.MediaKindNone,
		AuthorID:  author.Id,
		VillageID: author.VillageID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreateAlert(t *testing.T, db *gorm.DB, reporter *model.User, title string, official bool, createdAt time.Time) *model.Alert {
	t.Helper()
	alert := &model.Alert{
		Id:         uuid.New().String(),
		CreatedAt:  createdAt,
		Title:      title,
		Content:    title + " details",
		Kind:       "traffic",
		Severity:   model.AlertSeverityWarning,
		Status:     model.AlertStatusActive,
		IsOfficial: official,
		ReporterID: reporter.Id,
		VillageID:  reporter.VillageID,
	}
	require.NoError(t, db.Create(alert).Error)
	return alert
}

// TestCreateBusiness seeds a business page. photos is the raw JSON array of
// photo urls, pass "" for a business without photos.
func TestCreateBusiness(t *testing.T, db *gorm.DB, owner *model.User, name string, photos string) *model.Business {
	t.Helper()
	business := &model.Business{
		Id:        uuid.New().String(),
		Name:      name,
		Category:  "bakery",
		OwnerID:   owner.Id,
		VillageID: owner.VillageID,
	}
	if photos != "" {
		business.Photos = datatypes.JSON([]byte(photos))
	}
	require.NoError(t, db.Create(business).Error)
	return business
}

func TestCreateBusinessPost(t *testing.T, db *gorm.DB, business *model.Business, content string, createdAt time.Time) *model.BusinessPost {
	t.Helper()
	post := &model.BusinessPost{
		Id:         uuid.New().String(),
		CreatedAt:  createdAt,
		Content:    content,
		MediaKind:  model.MediaKindNone,
		BusinessID: business.Id,
		VillageID:  business.VillageID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreateAssociation(t *testing.T, db *gorm.DB, owner *model.User, name string, photos string) *model.Association {
	t.Helper()
	association := &model.Association{
		Id:        uuid.New().String(),
		Name:      name,
		OwnerID:   owner.Id,
		VillageID: owner.VillageID,
	}
	if photos != "" {
		association.Photos = datatypes.JSON([]byte(photos))
	}
	require.NoError(t, db.Create(association).Error)
	return association
}

func TestCreateAssociationPost(t *testing.T, db *gorm.DB, association *model.Association, content string, createdAt time.Time) *model.AssociationPost {
	t.Helper()
	post := &model.AssociationPost{
		Id:            uuid.New().String(),
		CreatedAt:     createdAt,
		Content:       content,
		MediaKind:     model.MediaKindNone,
		AssociationID: association.Id,
		VillageID:     association.VillageID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreateAssociationEvent(t *testing.T, db *gorm.DB, association *model.Association, title string, createdAt time.Time) *model.AssociationEvent {
	t.Helper()
	event := &model.AssociationEvent{
		Id:            uuid.New().String(),
		CreatedAt:     createdAt,
		Title:         title,
		StartsAt:      createdAt.Add(72 * time.Hour),
		Location:      "club house",
		MediaKind:     model.MediaKindNone,
		AssociationID: association.Id,
		VillageID:     association.VillageID,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func TestCreateListing(t *testing.T, db *gorm.DB, seller *model.User, title string, createdAt time.Time) *model.Listing {
	t.Helper()
	listing := &model.Listing{
		Id:         uuid.New().String(),
		CreatedAt:  createdAt,
		Title:      title,
		PriceCents: 2500,
		Category:   "furniture",
		MediaKind:  model.MediaKindNone,
		SellerID:   seller.Id,
		VillageID:  seller.VillageID,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func TestCreateEvent(t *testing.T, db *gorm.DB, organizer *model.User, title string, createdAt time.Time) *model.Event {
	t.Helper()
	event := &model.Event{
		Id:          uuid.New().String(),
		CreatedAt:   createdAt,
		Title:       title,
		StartsAt:    createdAt.Add(48 * time.Hour),
		Location:    "village square",
		MediaKind:   model.MediaKindNone,
		OrganizerID: organizer.Id,
		VillageID:   organizer.VillageID,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}
