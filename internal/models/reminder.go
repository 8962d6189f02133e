package models

import "time"

// ReminderModel stores a user-created reminder tied to a key date found
// in a document, such as a renewal or payment deadline.
type ReminderModel struct {
	Base
	SubjectID  string    `json:"subject_id"  gorm:"index;not null"`
	DocumentID string    `json:"document_id" gorm:"index"`
	Title      string    `json:"title"       gorm:"not null"`
	Note       string    `json:"note"        gorm:"type:text"`
	DueAt      time.Time `json:"due_at"      gorm:"index;not null"`
	Done       bool      `json:"done"        gorm:"default:false"`
}

func (ReminderModel) TableName() string { return "reminders" }
