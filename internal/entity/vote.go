package entity

import "github.com/abi-lab/backend/pkg/enum"

type VoteTargetType string

var (
	VoteTargetQuestion = enum.New(VoteTargetType("question"))
	VoteTargetAnswer   = enum.New(VoteTargetType("answer"))
)

type Vote struct {
	Base
	UserID     string         `gorm:"uniqueIndex:idx_votes_user_target;size:128"`
	TargetType VoteTargetType `gorm:"uniqueIndex:idx_votes_user_target;index:idx_votes_target;size:16"`
	TargetID   string         `gorm:"uniqueIndex:idx_votes_user_target;index:idx_votes_target;size:128"`

	// Value is either +1 or -1.
	Value int
}
