package entity

import (
	"database/sql"

	"github.com/abi-lab/backend/pkg/enum"
)

type UpgradeRequestStatus string

var (
	UpgradeRequestPending   = enum.New(UpgradeRequestStatus("pending"))
	UpgradeRequestApproved  = enum.New(UpgradeRequestStatus("approved"))
	UpgradeRequestDenied    = enum.New(UpgradeRequestStatus("denied"))
	UpgradeRequestFulfilled = enum.New(UpgradeRequestStatus("fulfilled"))
	UpgradeRequestCancelled = enum.New(UpgradeRequestStatus("cancelled"))
)

type UpgradeRequest struct {
	Base
	RequesterID      string `gorm:"index;size:128"`
	TeamID           sql.NullString
	Type             string
	Title            string
	Description      string `gorm:"type:text"`
	ApprovalLevel    Role
	Status           UpgradeRequestStatus `gorm:"index"`
	EstimatedCredits int
	Context          Map
	Deliverables     Map
	DenialReason     sql.NullString
	DecidedAt        sql.NullTime
	DecidedBy        sql.NullString
	FulfilledAt      sql.NullTime
}
