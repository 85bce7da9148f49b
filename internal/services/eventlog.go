package services

import (
	"reflect"
	"time"

	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/constants"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// ChangeSet accumulates field-level diffs for one audit event. Fields whose
// old and new values are equal are dropped, so a no-op update yields an empty
// set and no event.
type ChangeSet struct {
	changes models.FieldChanges
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{changes: models.FieldChanges{}}
}

// Set records a field change unless the values are equal.
func (c *ChangeSet) Set(field string, oldValue, newValue interface{}) *ChangeSet {
	if reflect.DeepEqual(oldValue, newValue) {
		return c
	}
	c.changes[field] = models.FieldChange{Old: oldValue, New: newValue}
	return c
}

func (c *ChangeSet) Empty() bool {
	return len(c.changes) == 0
}

func (c *ChangeSet) Changes() models.FieldChanges {
	return c.changes
}

// EventLog is the append-only audit trail. Record writes through the caller's
// transaction so the audit entry commits and rolls back with the mutation it
// describes; Query is the only read path and never mutates.
type EventLog struct {
	db *gorm.DB
}

func NewEventLog(db *gorm.DB) *EventLog {
	return &EventLog{db: db}
}

// Record appends one event describing a mutation. Updates with an empty
// change set record nothing.
func (l *EventLog) Record(tx *gorm.DB, actorID uint64, entityType models.EntityType, entityID uint64, action models.EventAction, changes models.FieldChanges) error {
	if action == models.EventActionUpdate && len(changes) == 0 {
		return nil
	}

	event := &models.Event{
		EntityType:   entityType,
		EntityID:     entityID,
		ActorUserID:  actorID,
		Action:       action,
		FieldChanges: changes,
		CreatedAt:    time.Now(),
	}

	if err := repository.NewEventRepository(tx).Create(event); err != nil {
		return apperrors.Internal("failed to record event", err)
	}
	return nil
}

// ListEventsInput represents filters for querying the audit trail
type ListEventsInput struct {
	EntityType  *models.EntityType
	EntityID    *uint64
	ActorUserID *uint64
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

// Query returns matching events, most recent first, with the total count.
// Results are scoped to the viewer: only events on goals the viewer owns or
// has a share in are returned.
func (l *EventLog) Query(viewerID uint64, input ListEventsInput) ([]models.Event, int64, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	filter := repository.EventFilter{
		ViewerID:    viewerID,
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		ActorUserID: input.ActorUserID,
		From:        input.From,
		To:          input.To,
		Offset:      (page - 1) * limit,
		Limit:       limit,
	}

	events, total, err := repository.NewEventRepository(l.db).Query(filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to query events", err)
	}
	return events, total, nil
}
