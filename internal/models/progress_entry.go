package models

import "time"

// ProgressEntry is a daily snapshot of a goal's progress for trend reporting.
// Later entries for the same day supersede earlier ones; rows are never
// overwritten in place.
type ProgressEntry struct {
	ID                 uint64    `gorm:"primarykey" json:"id"`
	GoalID             uint64    `gorm:"not null;index" json:"goal_id"`
	EntryDate          time.Time `gorm:"type:date;not null" json:"entry_date"`
	ProgressPercentage int       `gorm:"not null;default:0" json:"progress_percentage"`
	Notes              string    `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
}
