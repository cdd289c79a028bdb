package entity

import (
	"database/sql"

	"github.com/abi-lab/backend/pkg/enum"
)

type QuestionStatus string

var (
	QuestionStatusOpen     = enum.New(QuestionStatus("open"))
	QuestionStatusAnswered = enum.New(QuestionStatus("answered"))
	QuestionStatusClosed   = enum.New(QuestionStatus("closed"))
)

type Question struct {
	Base
	UserID           string `gorm:"index;size:128"`
	Title            string
	Body             string `gorm:"type:text"`
	AIContextSummary string `gorm:"type:text"`

	Score            int `gorm:"not null;default:0"`
	ViewCount        int `gorm:"not null;default:0"`
	AnswerCount      int `gorm:"not null;default:0"`
	AcceptedAnswerID sql.NullString
	Status           QuestionStatus `gorm:"index;default:open"`
}

type QuestionTag struct {
	QuestionID string `gorm:"primaryKey;size:128"`
	TagID      string `gorm:"primaryKey;size:128;index"`
}

type Answer struct {
	Base
	QuestionID string `gorm:"index;size:128"`
	UserID     string `gorm:"index;size:128"`
	Body       string `gorm:"type:text"`
	Score      int    `gorm:"not null;default:0"`
	IsAccepted bool   `gorm:"not null;default:false"`
}
