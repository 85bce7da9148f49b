package models

import "time"

type SharePermission string

const (
	SharePermissionEdit SharePermission = "edit"
	SharePermissionView SharePermission = "view"
)

type GoalShare struct {
	ID             uint64          `gorm:"primarykey" json:"id"`
	GoalID         uint64          `gorm:"not null;uniqueIndex:idx_goal_shares_goal_user" json:"goal_id"`
	UserID         uint64          `gorm:"not null;uniqueIndex:idx_goal_shares_goal_user" json:"user_id"`
	SharedByUserID uint64          `gorm:"not null" json:"shared_by_user_id"`
	Permission     SharePermission `gorm:"type:varchar(20);not null;default:'edit'" json:"permission"`
	CreatedAt      time.Time       `json:"created_at"`

	// Relations
	Goal     Goal `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
	User     User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SharedBy User `gorm:"foreignKey:SharedByUserID" json:"shared_by,omitempty"`
}
