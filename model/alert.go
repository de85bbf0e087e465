package model

import (
	"time"

	"gorm.io/gorm"
)

type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "INFO"
	AlertSeverityWarning  AlertSeverity = "WARNING"
	AlertSeverityCritical AlertSeverity = "CRITICAL"
)

type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "ACTIVE"
	AlertStatusResolved AlertStatus = "RESOLVED"
)

/*

Alert is a safety alert or an official announcement

Id: primary key
CreatedAt: time when entity is created
DeletedAt: time when entity is deleted

Title: short headline
Content: alert body in plain text
Kind: category label such as "traffic", "weather", "townhall"
Severity: INFO / WARNING / CRITICAL
Status: ACTIVE / RESOLVED

IsOfficial: decided at write time. Official announcements surface in the
feed as OFFICIAL with a SYSTEM author, everything else as ALERT with the
reporting villager as author.

ReporterID:
Reporter: villager who reported the alert, "belongs-to" relation.
		For official announcements the reporter is the administration
		account that published it, but the feed renders a SYSTEM author
		instead of the reporter.

*/

type Alert struct {
	Id         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	DeletedAt  gorm.DeletedAt
	Title      string
	Content    string
	Kind       string
	Severity   AlertSeverity `gorm:"default:INFO"`
	Status     AlertStatus   `gorm:"default:ACTIVE"`
	IsOfficial bool          `gorm:"default:false"`
	ReporterID string        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Reporter   User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	VillageID  string        `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Village    Village       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
