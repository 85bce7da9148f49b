package dto

import (
	"time"

	"github.com/letsgoal/goal-tracker-api/internal/models"
)

// EventDTO represents an audit event in API responses
type EventDTO struct {
	ID           uint64              `json:"id"`
	EntityType   models.EntityType   `json:"entity_type"`
	EntityID     uint64              `json:"entity_id"`
	ActorUserID  uint64              `json:"actor_user_id"`
	Action       models.EventAction  `json:"action"`
	FieldChanges models.FieldChanges `json:"field_changes"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ProgressEntryDTO represents a progress snapshot in API responses
type ProgressEntryDTO struct {
	ID                 uint64    `json:"id"`
	GoalID             uint64    `json:"goal_id"`
	EntryDate          string    `json:"entry_date"`
	ProgressPercentage int       `json:"progress_percentage"`
	Notes              string    `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
}

// ToEventDTO converts an Event model to EventDTO
func ToEventDTO(event models.Event) EventDTO {
	return EventDTO{
		ID:           event.ID,
		EntityType:   event.EntityType,
		EntityID:     event.EntityID,
		ActorUserID:  event.ActorUserID,
		Action:       event.Action,
		FieldChanges: event.FieldChanges,
		CreatedAt:    event.CreatedAt,
	}
}

// ToEventDTOs converts a slice of events
func ToEventDTOs(events []models.Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, ToEventDTO(event))
	}
	return dtos
}

// ToProgressEntryDTO converts a ProgressEntry model to ProgressEntryDTO
func ToProgressEntryDTO(entry models.ProgressEntry) ProgressEntryDTO {
	return ProgressEntryDTO{
		ID:                 entry.ID,
		GoalID:             entry.GoalID,
		EntryDate:          entry.EntryDate.Format("2006-01-02"),
		ProgressPercentage: entry.ProgressPercentage,
		Notes:              entry.Notes,
		CreatedAt:          entry.CreatedAt,
	}
}

// ToProgressEntryDTOs converts a slice of progress entries
func ToProgressEntryDTOs(entries []models.ProgressEntry) []ProgressEntryDTO {
	dtos := make([]ProgressEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, ToProgressEntryDTO(entry))
	}
	return dtos
}
