package entity

type Tag struct {
	Base
	Name          string
	Slug          string `gorm:"uniqueIndex;size:128"`
	Description   string
	QuestionCount int `gorm:"not null;default:0"`
}
