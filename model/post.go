package model

import (
	"time"

	"gorm.io/gorm"
)

/*

Post is a general post written by a villager

Id: primary key
CreatedAt: time when entity is created, sole sort key in the merged feed
DeletedAt: time when entity is deleted

Content: post body in plain text
MediaUrl: optional photo or video attachment
MediaKind: PHOTO / VIDEO / NONE, derived from the upload, not from the url

AuthorID:
Author: villager who wrote the post, "belongs-to" relation
VillageID:
Village: locality scope, "belongs-to" relation

Comments: "has-many" relation, loaded by the aggregator to derive the
comment count and by the comment endpoints for listing

*/

type Post struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt
	Content   string
	MediaUrl  string
	MediaKind MediaKind `gorm:"default:NONE"`
	AuthorID  string    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	VillageID string    `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Village   Village   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Comments  []*PostComment
}

type PostComment struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt
	Content   string
	AuthorID  string `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Author    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	PostID    string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
