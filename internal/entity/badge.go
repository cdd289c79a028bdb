package entity

import (
	"time"

	"github.com/abi-lab/backend/pkg/enum"
)

type BadgeTier string

var (
	BadgeTierBronze = enum.New(BadgeTier("bronze"))
	BadgeTierSilver = enum.New(BadgeTier("silver"))
	BadgeTierGold   = enum.New(BadgeTier("gold"))
)

type Badge struct {
	Base
	Name        string
	Slug        string `gorm:"uniqueIndex;size:64"`
	Description string
	Tier        BadgeTier
	Icon        string

	// Criteria is decoded by the badge engine, it has a type and an optional
	// threshold.
	Criteria Map
}

// UserBadge is never removed once awarded.
type UserBadge struct {
	UserID    string `gorm:"primaryKey;size:128"`
	BadgeID   string `gorm:"primaryKey;size:128"`
	AwardedAt time.Time
}
