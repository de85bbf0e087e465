package model

import (
	"time"

	"gorm.io/gorm"
)

// Event is an entry on the shared village calendar. Feed ordering still uses
// CreatedAt like every other store; StartsAt is per-type metadata only.
type Event struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	DeletedAt   gorm.DeletedAt
	Title       string
	Description string
	StartsAt    time.Time
	Location    string
	MediaUrl    string
	MediaKind   MediaKind `gorm:"default:NONE"`
	OrganizerID string    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Organizer   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	VillageID   string    `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Village     Village   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
