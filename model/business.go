package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*

Business is a local business page

Id: primary key
CreatedAt: time when entity is created
DeletedAt: time when entity is deleted

Name: display name of the business
Description: short description shown on the page
Category: e.g. "bakery", "garage"
Photos: JSON-encoded array of photo urls. The first entry doubles as the
		business avatar in the feed; an empty or absent array means no avatar.

OwnerID:
Owner: villager managing the page, "belongs-to" relation

*/

type Business struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	DeletedAt   gorm.DeletedAt
	Name        string
	Description string
	Category    string
	Photos      datatypes.JSON
	OwnerID     string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Owner       User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	VillageID   string  `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Village     Village `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type BusinessPost struct {
	Id         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	DeletedAt  gorm.DeletedAt
	Title      string
	Content    string
	MediaUrl   string
	MediaKind  MediaKind `gorm:"default:NONE"`
	BusinessID string    `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Business   Business  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	VillageID  string    `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Village    Village   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Comments   []*BusinessPostComment
}

type BusinessPostComment struct {
	Id             string `gorm:"primaryKey"`
	CreatedAt      time.Time
	DeletedAt      gorm.DeletedAt
	Content        string
	AuthorID       string `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Author         User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	BusinessPostID string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
