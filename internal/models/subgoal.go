package models

import (
	"time"

	"gorm.io/gorm"
)

type SubgoalStatus string

const (
	SubgoalStatusPending  SubgoalStatus = "pending"
	SubgoalStatusAchieved SubgoalStatus = "achieved"
)

type Subgoal struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	GoalID       uint64         `gorm:"not null;index" json:"goal_id"`
	Title        string         `gorm:"type:varchar(200);not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	TargetDate   *time.Time     `json:"target_date"`
	AchievedDate *time.Time     `json:"achieved_date"`
	Status       SubgoalStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	OrderIndex   int            `gorm:"not null;default:0" json:"order_index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Goal Goal `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
}
