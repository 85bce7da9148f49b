package dto

import (
	"time"

	"github.com/letsgoal/goal-tracker-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsSystem bool   `json:"is_system"`
}

// SubgoalDTO represents a subgoal in API responses
type SubgoalDTO struct {
	ID           uint64               `json:"id"`
	GoalID       uint64               `json:"goal_id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	TargetDate   *time.Time           `json:"target_date"`
	AchievedDate *time.Time           `json:"achieved_date"`
	Status       models.SubgoalStatus `json:"status"`
	OrderIndex   int                  `json:"order_index"`
}

// ShareDTO represents a goal share in API responses
type ShareDTO struct {
	UserID     uint64                 `json:"user_id"`
	Permission models.SharePermission `json:"permission"`
	User       *UserDTO               `json:"user,omitempty"`
}

// GoalDTO represents a goal in API responses
type GoalDTO struct {
	ID           uint64            `json:"id"`
	OwnerID      uint64            `json:"owner_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	TargetDate   *time.Time        `json:"target_date"`
	AchievedDate *time.Time        `json:"achieved_date"`
	ArchivedDate *time.Time        `json:"archived_date"`
	Status       models.GoalStatus `json:"status"`
	Progress     int               `json:"progress"`
	IsShared     bool              `json:"is_shared"`
	IsOwner      bool              `json:"is_owner"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Subgoals     []SubgoalDTO      `json:"subgoals"`
	Tags         []TagDTO          `json:"tags"`
	Shares       []ShareDTO        `json:"shares,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToTagDTO converts a Tag model to TagDTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:       tag.ID,
		Name:     tag.Name,
		Color:    tag.Color,
		IsSystem: tag.IsSystem,
	}
}

// ToSubgoalDTO converts a Subgoal model to SubgoalDTO
func ToSubgoalDTO(subgoal models.Subgoal) SubgoalDTO {
	return SubgoalDTO{
		ID:           subgoal.ID,
		GoalID:       subgoal.GoalID,
		Title:        subgoal.Title,
		Description:  subgoal.Description,
		TargetDate:   subgoal.TargetDate,
		AchievedDate: subgoal.AchievedDate,
		Status:       subgoal.Status,
		OrderIndex:   subgoal.OrderIndex,
	}
}

// ToShareDTO converts a GoalShare model to ShareDTO
func ToShareDTO(share models.GoalShare) ShareDTO {
	dto := ShareDTO{
		UserID:     share.UserID,
		Permission: share.Permission,
	}
	if share.User.ID != 0 {
		user := ToUserDTO(share.User)
		dto.User = &user
	}
	return dto
}

// ToGoalDTO converts a Goal model to GoalDTO for the given viewer
func ToGoalDTO(goal models.Goal, viewerID uint64) GoalDTO {
	dto := GoalDTO{
		ID:           goal.ID,
		OwnerID:      goal.OwnerID,
		Title:        goal.Title,
		Description:  goal.Description,
		TargetDate:   goal.TargetDate,
		AchievedDate: goal.AchievedDate,
		ArchivedDate: goal.ArchivedDate,
		Status:       goal.Status,
		Progress:     goal.Progress,
		IsShared:     len(goal.Shares) > 0,
		IsOwner:      goal.OwnerID == viewerID,
		CreatedAt:    goal.CreatedAt,
		UpdatedAt:    goal.UpdatedAt,
		Subgoals:     make([]SubgoalDTO, 0, len(goal.Subgoals)),
		Tags:         make([]TagDTO, 0, len(goal.Tags)),
	}

	for _, subgoal := range goal.Subgoals {
		dto.Subgoals = append(dto.Subgoals, ToSubgoalDTO(subgoal))
	}
	for _, tag := range goal.Tags {
		dto.Tags = append(dto.Tags, ToTagDTO(tag))
	}
	// Share details are only exposed to the owner.
	if dto.IsOwner {
		for _, share := range goal.Shares {
			dto.Shares = append(dto.Shares, ToShareDTO(share))
		}
	}
	return dto
}

// ToGoalDTOs converts a slice of goals
func ToGoalDTOs(goals []models.Goal, viewerID uint64) []GoalDTO {
	dtos := make([]GoalDTO, 0, len(goals))
	for _, goal := range goals {
		dtos = append(dtos, ToGoalDTO(goal, viewerID))
	}
	return dtos
}
