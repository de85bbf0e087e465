package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*

Association is a village club or society (sports club, fire brigade, choir)

Photos follows the same convention as Business.Photos: JSON-encoded array of
urls, first entry is the avatar shown in the feed.

*/

type Association struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	DeletedAt   gorm.DeletedAt
	Name        string
	Description string
	Photos      datatypes.JSON
	OwnerID     string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Owner       User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	VillageID   string  `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Village     Village `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type AssociationPost struct {
	Id            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	DeletedAt     gorm.DeletedAt
	Title         string
	Content       string
	MediaUrl      string
	MediaKind     MediaKind   `gorm:"default:NONE"`
	AssociationID string      `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Association   Association `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	VillageID     string      `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Village       Village     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Comments      []*AssociationPostComment
}

type AssociationPostComment struct {
	Id                string `gorm:"primaryKey"`
	CreatedAt         time.Time
	DeletedAt         gorm.DeletedAt
	Content           string
	AuthorID          string `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Author            User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	AssociationPostID string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AssociationEvent is an event hosted by an association, as opposed to Event
// which lives on the shared village calendar. They are separate stores and
// separate feed types.
type AssociationEvent struct {
	Id            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	DeletedAt     gorm.DeletedAt
	Title         string
	Description   string
	StartsAt      time.Time
	Location      string
	MediaUrl      string
	MediaKind     MediaKind   `gorm:"default:NONE"`
	AssociationID string      `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Association   Association `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	VillageID     string      `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Village       Village     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
