package services

import (
	"errors"
	"strings"
	"time"

	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// GoalService handles goal and subgoal business logic. Every mutation runs in
// one transaction covering the permission check, the domain write, the
// progress recompute where subgoals are involved, and the audit entry.
type GoalService struct {
	db     *gorm.DB
	guard  PermissionGuard
	events *EventLog
	engine *ProgressEngine
}

// NewGoalService creates a new GoalService
func NewGoalService(db *gorm.DB) *GoalService {
	events := NewEventLog(db)
	return &GoalService{
		db:     db,
		events: events,
		engine: NewProgressEngine(events),
	}
}

// CreateGoalInput represents input for creating a goal
type CreateGoalInput struct {
	OwnerID     uint64
	Title       string
	Description string
	TargetDate  *time.Time
}

// UpdateGoalInput represents input for updating a goal
type UpdateGoalInput struct {
	Title           *string
	Description     *string
	TargetDate      *time.Time
	ClearTargetDate bool

	// Status may only be forced through an administrative action; normal
	// updates leave status to the progress engine.
	Status        *models.GoalStatus
	AdminOverride bool
}

// CreateSubgoalInput represents input for creating a subgoal
type CreateSubgoalInput struct {
	Title       string
	Description string
	TargetDate  *time.Time
	OrderIndex  int
}

// UpdateSubgoalInput represents input for updating a subgoal
type UpdateSubgoalInput struct {
	Title           *string
	Description     *string
	TargetDate      *time.Time
	ClearTargetDate bool
	Status          *models.SubgoalStatus
	OrderIndex      *int
}

// ListGoals returns the goals a user owns or has been given a share on.
func (s *GoalService) ListGoals(userID uint64) ([]models.Goal, error) {
	goals, err := repository.NewGoalRepository(s.db).ListForUser(userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list goals", err)
	}
	return goals, nil
}

// GetGoal returns a goal with related data if the user may read it.
func (s *GoalService) GetGoal(goalID, userID uint64) (*models.Goal, error) {
	goal, err := repository.NewGoalRepository(s.db).FindByID(goalID,
		"Owner", "Subgoals", "Tags", "Shares", "Shares.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("goal not found")
		}
		return nil, apperrors.Internal("failed to load goal", err)
	}

	if !s.guard.CanAccess(goal, goal.Shares, userID) {
		return nil, apperrors.Permission("you do not have access to this goal")
	}
	return goal, nil
}

// CreateGoal creates a new goal owned by the acting user.
func (s *GoalService) CreateGoal(input CreateGoalInput) (*models.Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}

	goal := &models.Goal{
		OwnerID:     input.OwnerID,
		Title:       title,
		Description: input.Description,
		TargetDate:  input.TargetDate,
		Status:      models.GoalStatusCreated,
		Progress:    0,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGoalRepository(tx).Create(goal); err != nil {
			return apperrors.Internal("failed to create goal", err)
		}

		changes := NewChangeSet().
			Set("title", nil, goal.Title).
			Set("status", nil, string(goal.Status)).
			Changes()
		return s.events.Record(tx, input.OwnerID, models.EntityTypeGoal, goal.ID, models.EventActionCreate, changes)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateGoal applies direct field edits. Status is engine-derived and is only
// writable here behind the administrative override.
func (s *GoalService) UpdateGoal(goalID, actorID uint64, input UpdateGoalInput) (*models.Goal, error) {
	var goal *models.Goal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		goal, _, err = s.loadGoalForEdit(tx, goalID, actorID)
		if err != nil {
			return err
		}

		changes := NewChangeSet()

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apperrors.Validation("title cannot be empty")
			}
			changes.Set("title", goal.Title, title)
			goal.Title = title
		}
		if input.Description != nil {
			changes.Set("description", goal.Description, *input.Description)
			goal.Description = *input.Description
		}
		if input.ClearTargetDate {
			changes.Set("target_date", dateValue(goal.TargetDate), nil)
			goal.TargetDate = nil
		} else if input.TargetDate != nil {
			changes.Set("target_date", dateValue(goal.TargetDate), dateValue(input.TargetDate))
			goal.TargetDate = input.TargetDate
		}
		if input.Status != nil {
			if !input.AdminOverride {
				return apperrors.Validation("status is derived from subgoals and cannot be set directly")
			}
			if !validGoalStatus(*input.Status) {
				return apperrors.Validationf("invalid status %q", *input.Status)
			}
			changes.Set("status", string(goal.Status), string(*input.Status))
			goal.Status = *input.Status
		}

		// A no-op update writes nothing and leaves no audit entry.
		if changes.Empty() {
			return nil
		}

		if err := repository.NewGoalRepository(tx).Save(goal); err != nil {
			return apperrors.Internal("failed to update goal", err)
		}
		return s.events.Record(tx, actorID, models.EntityTypeGoal, goal.ID, models.EventActionUpdate, changes.Changes())
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal and everything hanging off it. Cascades are
// explicit so every removed subgoal gets its own audit entry.
func (s *GoalService) DeleteGoal(goalID, actorID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		goals := repository.NewGoalRepository(tx)

		goal, err := goals.FindByIDForUpdate(goalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("goal not found")
			}
			return apperrors.Internal("failed to load goal", err)
		}
		if !s.guard.IsOwner(goal, actorID) {
			return apperrors.Permission("only the owner can delete a goal")
		}

		subgoals, err := goals.ListSubgoals(goalID)
		if err != nil {
			return apperrors.Internal("failed to list subgoals", err)
		}
		for _, subgoal := range subgoals {
			if err := goals.DeleteSubgoal(subgoal.ID); err != nil {
				return apperrors.Internal("failed to delete subgoal", err)
			}
			changes := NewChangeSet().Set("title", subgoal.Title, nil).Changes()
			if err := s.events.Record(tx, actorID, models.EntityTypeSubgoal, subgoal.ID, models.EventActionDelete, changes); err != nil {
				return err
			}
		}

		if err := repository.NewTagRepository(tx).DeleteAssociationsByGoal(goalID); err != nil {
			return apperrors.Internal("failed to delete tag associations", err)
		}
		if err := repository.NewShareRepository(tx).DeleteByGoal(goalID); err != nil {
			return apperrors.Internal("failed to delete shares", err)
		}
		if err := repository.NewProgressEntryRepository(tx).DeleteByGoal(goalID); err != nil {
			return apperrors.Internal("failed to delete progress entries", err)
		}
		if err := goals.Delete(goalID); err != nil {
			return apperrors.Internal("failed to delete goal", err)
		}

		changes := NewChangeSet().Set("title", goal.Title, nil).Changes()
		return s.events.Record(tx, actorID, models.EntityTypeGoal, goalID, models.EventActionDelete, changes)
	})
}

// CreateSubgoal adds a subgoal to a goal and recomputes the goal's progress.
func (s *GoalService) CreateSubgoal(goalID, actorID uint64, input CreateSubgoalInput) (*models.Subgoal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}

	subgoal := &models.Subgoal{
		GoalID:      goalID,
		Title:       title,
		Description: input.Description,
		TargetDate:  input.TargetDate,
		Status:      models.SubgoalStatusPending,
		OrderIndex:  input.OrderIndex,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		goal, _, err := s.loadGoalForEdit(tx, goalID, actorID)
		if err != nil {
			return err
		}
		if goal.Status == models.GoalStatusArchived {
			return apperrors.InvalidState("cannot modify subgoals of an archived goal")
		}

		if err := repository.NewGoalRepository(tx).CreateSubgoal(subgoal); err != nil {
			return apperrors.Internal("failed to create subgoal", err)
		}

		changes := NewChangeSet().
			Set("title", nil, subgoal.Title).
			Set("status", nil, string(subgoal.Status)).
			Changes()
		if err := s.events.Record(tx, actorID, models.EntityTypeSubgoal, subgoal.ID, models.EventActionCreate, changes); err != nil {
			return err
		}

		_, err = s.engine.Recompute(tx, goalID, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return subgoal, nil
}

// UpdateSubgoal applies field edits to a subgoal; a status change triggers the
// progress engine.
func (s *GoalService) UpdateSubgoal(subgoalID, actorID uint64, input UpdateSubgoalInput) (*models.Subgoal, error) {
	var subgoal *models.Subgoal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		goals := repository.NewGoalRepository(tx)

		var err error
		subgoal, err = goals.FindSubgoalByID(subgoalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("subgoal not found")
			}
			return apperrors.Internal("failed to load subgoal", err)
		}

		goal, _, err := s.loadGoalForEdit(tx, subgoal.GoalID, actorID)
		if err != nil {
			return err
		}
		if goal.Status == models.GoalStatusArchived {
			return apperrors.InvalidState("cannot modify subgoals of an archived goal")
		}

		changes := NewChangeSet()
		statusChanged := false

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apperrors.Validation("title cannot be empty")
			}
			changes.Set("title", subgoal.Title, title)
			subgoal.Title = title
		}
		if input.Description != nil {
			changes.Set("description", subgoal.Description, *input.Description)
			subgoal.Description = *input.Description
		}
		if input.ClearTargetDate {
			changes.Set("target_date", dateValue(subgoal.TargetDate), nil)
			subgoal.TargetDate = nil
		} else if input.TargetDate != nil {
			changes.Set("target_date", dateValue(subgoal.TargetDate), dateValue(input.TargetDate))
			subgoal.TargetDate = input.TargetDate
		}
		if input.OrderIndex != nil {
			changes.Set("order_index", subgoal.OrderIndex, *input.OrderIndex)
			subgoal.OrderIndex = *input.OrderIndex
		}
		if input.Status != nil {
			if *input.Status != models.SubgoalStatusPending && *input.Status != models.SubgoalStatusAchieved {
				return apperrors.Validationf("invalid status %q", *input.Status)
			}
			if *input.Status != subgoal.Status {
				changes.Set("status", string(subgoal.Status), string(*input.Status))
				subgoal.Status = *input.Status
				statusChanged = true

				if subgoal.Status == models.SubgoalStatusAchieved && subgoal.AchievedDate == nil {
					now := time.Now()
					subgoal.AchievedDate = &now
					changes.Set("achieved_date", nil, dateValue(subgoal.AchievedDate))
				}
			}
		}

		if changes.Empty() {
			return nil
		}

		if err := goals.SaveSubgoal(subgoal); err != nil {
			return apperrors.Internal("failed to update subgoal", err)
		}
		if err := s.events.Record(tx, actorID, models.EntityTypeSubgoal, subgoal.ID, models.EventActionUpdate, changes.Changes()); err != nil {
			return err
		}

		if statusChanged {
			if _, err := s.engine.Recompute(tx, subgoal.GoalID, actorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subgoal, nil
}

// DeleteSubgoal removes a subgoal and recomputes the goal's progress.
func (s *GoalService) DeleteSubgoal(subgoalID, actorID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		goals := repository.NewGoalRepository(tx)

		subgoal, err := goals.FindSubgoalByID(subgoalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("subgoal not found")
			}
			return apperrors.Internal("failed to load subgoal", err)
		}

		goal, _, err := s.loadGoalForEdit(tx, subgoal.GoalID, actorID)
		if err != nil {
			return err
		}
		if goal.Status == models.GoalStatusArchived {
			return apperrors.InvalidState("cannot modify subgoals of an archived goal")
		}

		if err := goals.DeleteSubgoal(subgoalID); err != nil {
			return apperrors.Internal("failed to delete subgoal", err)
		}

		changes := NewChangeSet().Set("title", subgoal.Title, nil).Changes()
		if err := s.events.Record(tx, actorID, models.EntityTypeSubgoal, subgoalID, models.EventActionDelete, changes); err != nil {
			return err
		}

		_, err = s.engine.Recompute(tx, subgoal.GoalID, actorID)
		return err
	})
}

// loadGoalForEdit locks the goal row, loads its shares and verifies the actor
// may mutate it.
func (s *GoalService) loadGoalForEdit(tx *gorm.DB, goalID, actorID uint64) (*models.Goal, []models.GoalShare, error) {
	goal, err := repository.NewGoalRepository(tx).FindByIDForUpdate(goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("goal not found")
		}
		return nil, nil, apperrors.Internal("failed to load goal", err)
	}

	shares, err := repository.NewShareRepository(tx).ListByGoal(goalID)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to load shares", err)
	}

	if !s.guard.CanEdit(goal, shares, actorID) {
		return nil, nil, apperrors.Permission("you do not have permission to modify this goal")
	}
	return goal, shares, nil
}

func validGoalStatus(status models.GoalStatus) bool {
	switch status {
	case models.GoalStatusCreated, models.GoalStatusStarted, models.GoalStatusWorking,
		models.GoalStatusCompleted, models.GoalStatusArchived:
		return true
	}
	return false
}

// dateValue renders an optional date for audit entries; nil stays nil so the
// JSON diff is stable across drivers.
func dateValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
