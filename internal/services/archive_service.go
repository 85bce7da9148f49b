package services

import (
	"errors"
	"time"

	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/constants"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// ArchiveService gates the completed -> archived -> completed transitions.
// The progress engine never enters or leaves archived; only these two
// operations do.
type ArchiveService struct {
	db     *gorm.DB
	guard  PermissionGuard
	events *EventLog
	tags   *TagService
}

// NewArchiveService creates a new ArchiveService
func NewArchiveService(db *gorm.DB) *ArchiveService {
	return &ArchiveService{
		db:     db,
		events: NewEventLog(db),
		tags:   NewTagService(db),
	}
}

// Archive moves a completed goal into the archive, stamps archived_date and
// applies the "Archived" system tag.
func (s *ArchiveService) Archive(goalID, actorID uint64) (*models.Goal, error) {
	var goal *models.Goal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = s.loadGoalForLifecycle(tx, goalID, actorID)
		if err != nil {
			return err
		}

		if goal.Status != models.GoalStatusCompleted {
			return apperrors.InvalidState("only a completed goal can be archived")
		}

		oldStatus := goal.Status
		now := time.Now()
		goal.Status = models.GoalStatusArchived
		goal.ArchivedDate = &now

		if err := repository.NewGoalRepository(tx).Save(goal); err != nil {
			return apperrors.Internal("failed to archive goal", err)
		}
		if err := s.tags.ApplySystemTag(tx, goal, constants.SystemTagArchived); err != nil {
			return err
		}

		changes := NewChangeSet().
			Set("status", string(oldStatus), string(goal.Status)).
			Set("archived_date", nil, dateValue(goal.ArchivedDate)).
			Changes()
		return s.events.Record(tx, actorID, models.EntityTypeGoal, goal.ID, models.EventActionStatusChange, changes)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// Unarchive restores an archived goal to completed, clears archived_date and
// removes the "Archived" tag. Progress is not recomputed; the goal was at
// 100 when it was archived.
func (s *ArchiveService) Unarchive(goalID, actorID uint64) (*models.Goal, error) {
	var goal *models.Goal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = s.loadGoalForLifecycle(tx, goalID, actorID)
		if err != nil {
			return err
		}

		if goal.Status != models.GoalStatusArchived {
			return apperrors.InvalidState("only an archived goal can be unarchived")
		}

		oldStatus := goal.Status
		oldArchived := dateValue(goal.ArchivedDate)
		goal.Status = models.GoalStatusCompleted
		goal.ArchivedDate = nil

		if err := repository.NewGoalRepository(tx).Save(goal); err != nil {
			return apperrors.Internal("failed to unarchive goal", err)
		}
		if err := s.tags.RemoveSystemTag(tx, goal, constants.SystemTagArchived); err != nil {
			return err
		}

		changes := NewChangeSet().
			Set("status", string(oldStatus), string(goal.Status)).
			Set("archived_date", oldArchived, nil).
			Changes()
		return s.events.Record(tx, actorID, models.EntityTypeGoal, goal.ID, models.EventActionStatusChange, changes)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *ArchiveService) loadGoalForLifecycle(tx *gorm.DB, goalID, actorID uint64) (*models.Goal, error) {
	goal, err := repository.NewGoalRepository(tx).FindByIDForUpdate(goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("goal not found")
		}
		return nil, apperrors.Internal("failed to load goal", err)
	}

	shares, err := repository.NewShareRepository(tx).ListByGoal(goalID)
	if err != nil {
		return nil, apperrors.Internal("failed to load shares", err)
	}
	if !s.guard.CanEdit(goal, shares, actorID) {
		return nil, apperrors.Permission("you do not have permission to modify this goal")
	}
	return goal, nil
}
