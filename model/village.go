package model

import "time"

// Village is the locality scope. Every content row belongs to exactly one
// village, and a viewer's feed never crosses the village boundary.
type Village struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string
	Slug      string `gorm:"uniqueIndex"`
}
