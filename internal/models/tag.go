package models

import (
	"time"

	"gorm.io/gorm"
)

type Tag struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	OwnerID   *uint64        `gorm:"index" json:"owner_id"`
	Name      string         `gorm:"type:varchar(50);not null" json:"name"`
	Color     string         `gorm:"type:varchar(7);not null" json:"color"`
	IsSystem  bool           `gorm:"not null;default:false" json:"is_system"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// GoalTag is the join row between goals and tags. It is a real model (not just
// an implicit join table) so associations can be created and removed as
// explicit rows inside the mutating transaction.
type GoalTag struct {
	GoalID    uint64    `gorm:"primarykey" json:"goal_id"`
	TagID     uint64    `gorm:"primarykey" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
