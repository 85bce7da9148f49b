package models

import (
	"time"

	"gorm.io/gorm"
)

type GoalStatus string

const (
	GoalStatusCreated   GoalStatus = "created"
	GoalStatusStarted   GoalStatus = "started"
	GoalStatusWorking   GoalStatus = "working"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusArchived  GoalStatus = "archived"
)

type Goal struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	OwnerID      uint64         `gorm:"not null;index" json:"owner_id"`
	Title        string         `gorm:"type:varchar(200);not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	TargetDate   *time.Time     `json:"target_date"`
	AchievedDate *time.Time     `json:"achieved_date"`
	ArchivedDate *time.Time     `json:"archived_date"`
	Status       GoalStatus     `gorm:"type:varchar(20);not null;default:'created'" json:"status"`
	Progress     int            `gorm:"not null;default:0" json:"progress"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner    User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Subgoals []Subgoal   `gorm:"foreignKey:GoalID" json:"subgoals,omitempty"`
	Shares   []GoalShare `gorm:"foreignKey:GoalID" json:"shares,omitempty"`
	Tags     []Tag       `gorm:"many2many:goal_tags" json:"tags,omitempty"`
}
