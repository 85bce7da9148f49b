package services

import (
	"errors"
	"math"
	"time"

	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// ProgressEngine keeps a goal's progress percentage and lifecycle status
// consistent with its subgoals. It is the single place status is derived;
// nothing else writes Goal.Progress.
type ProgressEngine struct {
	events *EventLog
}

func NewProgressEngine(events *EventLog) *ProgressEngine {
	return &ProgressEngine{events: events}
}

// Recompute re-derives progress and status for a goal after a subgoal
// mutation. It must run inside the transaction that performed the mutation:
// the goal row is re-read under lock, so a goal archived concurrently is
// detected before commit and reported as a conflict. On any change it saves
// the goal and appends one status_change event with the old and new values.
func (e *ProgressEngine) Recompute(tx *gorm.DB, goalID, actorID uint64) (*models.Goal, error) {
	if tx == nil {
		return nil, apperrors.Validation("recompute requires an open transaction")
	}

	goals := repository.NewGoalRepository(tx)

	goal, err := goals.FindByIDForUpdate(goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("goal not found")
		}
		return nil, apperrors.Internal("failed to load goal", err)
	}

	// Archived is terminal; only an explicit unarchive leaves it.
	if goal.Status == models.GoalStatusArchived {
		return nil, apperrors.Conflict("goal was archived during the update")
	}

	total, achieved, err := goals.CountSubgoals(goalID)
	if err != nil {
		return nil, apperrors.Internal("failed to count subgoals", err)
	}

	progress := computeProgress(achieved, total)
	newStatus := deriveStatus(achieved, total)

	oldProgress := goal.Progress
	oldStatus := goal.Status
	if progress == oldProgress && newStatus == oldStatus {
		return goal, nil
	}

	goal.Progress = progress
	goal.Status = newStatus
	// First completion stamps achieved_date; un-checking a subgoal later
	// recomputes status downward but keeps the original date.
	if newStatus == models.GoalStatusCompleted && goal.AchievedDate == nil {
		now := time.Now()
		goal.AchievedDate = &now
	}

	if err := goals.Save(goal); err != nil {
		return nil, apperrors.Internal("failed to save goal", err)
	}

	changes := NewChangeSet().
		Set("progress", oldProgress, progress).
		Set("status", string(oldStatus), string(newStatus)).
		Changes()
	if err := e.events.Record(tx, actorID, models.EntityTypeGoal, goal.ID, models.EventActionStatusChange, changes); err != nil {
		return nil, err
	}

	return goal, nil
}

func computeProgress(achieved, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(achieved) * 100 / float64(total)))
}

// deriveStatus maps subgoal completion onto the lifecycle. The mapping is a
// pure recompute, so reverting subgoals walks status back down the same
// thresholds.
func deriveStatus(achieved, total int64) models.GoalStatus {
	switch {
	case total > 0 && achieved == total:
		return models.GoalStatusCompleted
	case achieved >= 2:
		return models.GoalStatusWorking
	case achieved == 1:
		return models.GoalStatusStarted
	default:
		return models.GoalStatusCreated
	}
}
