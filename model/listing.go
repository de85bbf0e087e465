package model

import (
	"time"

	"gorm.io/gorm"
)

/*

Listing is a marketplace classified

PriceCents: asking price in cents, 0 means "free / give away"
Category: e.g. "furniture", "garden", "electronics"

*/

type Listing struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	DeletedAt   gorm.DeletedAt
	Title       string
	Description string
	PriceCents  int64
	Category    string
	MediaUrl    string
	MediaKind   MediaKind `gorm:"default:NONE"`
	SellerID    string    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Seller      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	VillageID   string    `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Village     Village   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
