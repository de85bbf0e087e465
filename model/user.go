package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt
	Name      string
	AvatarUrl string
	VillageID string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Village   Village `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}
