package services

import (
	"errors"

	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/constants"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// ShareService grants and revokes cross-user access to goals and keeps the
// "Shared" system tag in step with the share rows.
type ShareService struct {
	db     *gorm.DB
	guard  PermissionGuard
	events *EventLog
	tags   *TagService
}

// NewShareService creates a new ShareService
func NewShareService(db *gorm.DB) *ShareService {
	return &ShareService{
		db:     db,
		events: NewEventLog(db),
		tags:   NewTagService(db),
	}
}

// ShareGoalInput represents input for sharing a goal
type ShareGoalInput struct {
	GoalID     uint64
	OwnerID    uint64
	Email      string
	Permission models.SharePermission
}

// Share grants a user access to a goal. Only the owner may share; sharing
// with the owner is rejected and a duplicate pair is a conflict.
func (s *ShareService) Share(input ShareGoalInput) (*models.GoalShare, error) {
	if input.Permission != models.SharePermissionEdit && input.Permission != models.SharePermissionView {
		return nil, apperrors.Validationf("invalid permission %q", input.Permission)
	}

	var share *models.GoalShare

	err := s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := repository.NewGoalRepository(tx).FindByIDForUpdate(input.GoalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("goal not found")
			}
			return apperrors.Internal("failed to load goal", err)
		}
		if !s.guard.IsOwner(goal, input.OwnerID) {
			return apperrors.Permission("only the owner can share a goal")
		}

		target, err := repository.NewUserRepository(tx).FindByEmail(input.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("no user with that email")
			}
			return apperrors.Internal("failed to look up user", err)
		}
		if target.ID == goal.OwnerID {
			return apperrors.Validation("cannot share a goal with its owner")
		}

		shares := repository.NewShareRepository(tx)
		if _, err := shares.Find(input.GoalID, target.ID); err == nil {
			return apperrors.Conflict("goal is already shared with this user")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Internal("failed to check existing share", err)
		}

		share = &models.GoalShare{
			GoalID:         input.GoalID,
			UserID:         target.ID,
			SharedByUserID: input.OwnerID,
			Permission:     input.Permission,
		}
		if err := shares.Create(share); err != nil {
			return apperrors.Internal("failed to create share", err)
		}

		if err := s.tags.ApplySystemTag(tx, goal, constants.SystemTagShared); err != nil {
			return err
		}

		changes := NewChangeSet().Set("shares", nil, target.Username).Changes()
		return s.events.Record(tx, input.OwnerID, models.EntityTypeGoal, goal.ID, models.EventActionUpdate, changes)
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

// Unshare revokes a user's access. Revoking an absent share is a no-op with
// no audit entry; removing the last share drops the "Shared" tag.
func (s *ShareService) Unshare(goalID, ownerID, targetUserID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := repository.NewGoalRepository(tx).FindByIDForUpdate(goalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("goal not found")
			}
			return apperrors.Internal("failed to load goal", err)
		}
		if !s.guard.IsOwner(goal, ownerID) {
			return apperrors.Permission("only the owner can unshare a goal")
		}

		shares := repository.NewShareRepository(tx)
		affected, err := shares.Delete(goalID, targetUserID)
		if err != nil {
			return apperrors.Internal("failed to delete share", err)
		}
		if affected == 0 {
			return nil
		}

		remaining, err := shares.CountByGoal(goalID)
		if err != nil {
			return apperrors.Internal("failed to count shares", err)
		}
		if remaining == 0 {
			if err := s.tags.RemoveSystemTag(tx, goal, constants.SystemTagShared); err != nil {
				return err
			}
		}

		removed := shareTargetName(tx, targetUserID)
		changes := NewChangeSet().Set("shares", removed, nil).Changes()
		return s.events.Record(tx, ownerID, models.EntityTypeGoal, goal.ID, models.EventActionUpdate, changes)
	})
}

// ListShares returns the shares on a goal for anyone who may read it.
func (s *ShareService) ListShares(goalID, userID uint64) ([]models.GoalShare, error) {
	goal, err := repository.NewGoalRepository(s.db).FindByID(goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("goal not found")
		}
		return nil, apperrors.Internal("failed to load goal", err)
	}

	shares, err := repository.NewShareRepository(s.db).ListByGoal(goalID)
	if err != nil {
		return nil, apperrors.Internal("failed to list shares", err)
	}
	if !s.guard.CanAccess(goal, shares, userID) {
		return nil, apperrors.Permission("you do not have access to this goal")
	}
	return shares, nil
}

// shareTargetName resolves a username for the audit entry; a vanished user
// falls back to the numeric id.
func shareTargetName(tx *gorm.DB, userID uint64) interface{} {
	user, err := repository.NewUserRepository(tx).FindByID(userID)
	if err != nil {
		return userID
	}
	return user.Username
}
