package models

import "time"

type EntityType string

const (
	EntityTypeGoal    EntityType = "goal"
	EntityTypeSubgoal EntityType = "subgoal"
)

type EventAction string

const (
	EventActionCreate       EventAction = "create"
	EventActionUpdate       EventAction = "update"
	EventActionDelete       EventAction = "delete"
	EventActionStatusChange EventAction = "status_change"
)

// FieldChange captures a single field's before and after values.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

type FieldChanges map[string]FieldChange

// Event is an append-only audit record. There is no UpdatedAt or DeletedAt:
// events are never modified or removed once written.
type Event struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	EntityType   EntityType   `gorm:"type:varchar(20);not null;index:idx_events_entity" json:"entity_type"`
	EntityID     uint64       `gorm:"not null;index:idx_events_entity" json:"entity_id"`
	ActorUserID  uint64       `gorm:"not null;index" json:"actor_user_id"`
	Action       EventAction  `gorm:"type:varchar(20);not null" json:"action"`
	FieldChanges FieldChanges `gorm:"serializer:json;type:text" json:"field_changes"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
}
