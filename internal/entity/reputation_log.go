package entity

import "database/sql"

// ReputationLog is append-only. Reversals are new rows, never updates.
type ReputationLog struct {
	SnowFlakeBase
	UserID     string `gorm:"index;size:128"`
	Change     int
	Reason     string `gorm:"size:64"`
	SourceType sql.NullString
	SourceID   sql.NullString `gorm:"index"`
}
