package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/constants"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// TagService manages a user's tag namespace and goal-tag associations,
// including the engine-managed system tags.
type TagService struct {
	db     *gorm.DB
	guard  PermissionGuard
	events *EventLog
}

// NewTagService creates a new TagService
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db, events: NewEventLog(db)}
}

// UpdateTagInput represents input for renaming or recoloring a tag
type UpdateTagInput struct {
	Name  *string
	Color *string
}

// ListTags returns the owner's tags, system tags last.
func (s *TagService) ListTags(ownerID uint64) ([]models.Tag, error) {
	tags, err := repository.NewTagRepository(s.db).ListByOwner(ownerID)
	if err != nil {
		return nil, apperrors.Internal("failed to list tags", err)
	}
	return tags, nil
}

// CreateTag creates a user tag. Names are unique per owner, case-insensitive;
// system tag names are reserved.
func (s *TagService) CreateTag(ownerID uint64, name, color string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("tag name is required")
	}
	if isSystemTagName(name) {
		return nil, apperrors.Validationf("tag name %q is reserved", name)
	}
	if !hexColorPattern.MatchString(color) {
		return nil, apperrors.Validation("color must be a hex value like #RRGGBB")
	}

	tag := &models.Tag{
		OwnerID: &ownerID,
		Name:    name,
		Color:   color,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tags := repository.NewTagRepository(tx)

		if _, err := tags.FindByOwnerAndName(ownerID, name); err == nil {
			return apperrors.Validationf("tag %q already exists", name)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Internal("failed to check tag name", err)
		}

		// System tags don't count against the user's limit.
		count, err := tags.CountUserTags(ownerID)
		if err != nil {
			return apperrors.Internal("failed to count tags", err)
		}
		if count >= constants.MaxTagsPerUser {
			return apperrors.Validationf("tag limit of %d reached", constants.MaxTagsPerUser)
		}

		if err := tags.Create(tag); err != nil {
			return apperrors.Internal("failed to create tag", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag renames or recolors a user tag.
func (s *TagService) UpdateTag(tagID, ownerID uint64, input UpdateTagInput) (*models.Tag, error) {
	var tag *models.Tag

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tags := repository.NewTagRepository(tx)

		var err error
		tag, err = tags.FindByID(tagID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("tag not found")
			}
			return apperrors.Internal("failed to load tag", err)
		}
		if tag.IsSystem {
			return apperrors.Validation("system tags cannot be modified")
		}
		if tag.OwnerID == nil || *tag.OwnerID != ownerID {
			return apperrors.Permission("tag belongs to another user")
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apperrors.Validation("tag name cannot be empty")
			}
			if isSystemTagName(name) {
				return apperrors.Validationf("tag name %q is reserved", name)
			}
			if !strings.EqualFold(name, tag.Name) {
				if _, err := tags.FindByOwnerAndName(ownerID, name); err == nil {
					return apperrors.Validationf("tag %q already exists", name)
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.Internal("failed to check tag name", err)
				}
			}
			tag.Name = name
		}
		if input.Color != nil {
			if !hexColorPattern.MatchString(*input.Color) {
				return apperrors.Validation("color must be a hex value like #RRGGBB")
			}
			tag.Color = *input.Color
		}

		if err := tags.Save(tag); err != nil {
			return apperrors.Internal("failed to update tag", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a user tag and all of its goal associations. The goals
// themselves are untouched.
func (s *TagService) DeleteTag(tagID, ownerID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		tags := repository.NewTagRepository(tx)

		tag, err := tags.FindByID(tagID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("tag not found")
			}
			return apperrors.Internal("failed to load tag", err)
		}
		if tag.IsSystem {
			return apperrors.Validation("system tags cannot be deleted")
		}
		if tag.OwnerID == nil || *tag.OwnerID != ownerID {
			return apperrors.Permission("tag belongs to another user")
		}

		if err := tags.DeleteAssociationsByTag(tagID); err != nil {
			return apperrors.Internal("failed to delete tag associations", err)
		}
		if err := tags.Delete(tagID); err != nil {
			return apperrors.Internal("failed to delete tag", err)
		}
		return nil
	})
}

// Attach associates a user tag with a goal. Attaching an already-attached tag
// is a no-op with no audit entry. System tags are rejected; only the share and
// archive operations move those.
func (s *TagService) Attach(goalID, tagID, actorID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := s.loadGoalForTagging(tx, goalID, actorID)
		if err != nil {
			return err
		}

		tags := repository.NewTagRepository(tx)
		tag, err := tags.FindByID(tagID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("tag not found")
			}
			return apperrors.Internal("failed to load tag", err)
		}
		if tag.IsSystem {
			return apperrors.Validation("system tags are managed automatically")
		}
		if tag.OwnerID == nil || *tag.OwnerID != actorID {
			return apperrors.Permission("tag belongs to another user")
		}

		if _, err := tags.FindAssociation(goalID, tagID); err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Internal("failed to check tag association", err)
		}

		if err := tags.CreateAssociation(&models.GoalTag{GoalID: goalID, TagID: tagID}); err != nil {
			return apperrors.Internal("failed to attach tag", err)
		}

		changes := NewChangeSet().Set("tags", nil, tag.Name).Changes()
		return s.events.Record(tx, actorID, models.EntityTypeGoal, goal.ID, models.EventActionUpdate, changes)
	})
}

// Detach removes a user tag from a goal. Detaching an absent tag is a no-op;
// system tags are rejected.
func (s *TagService) Detach(goalID, tagID, actorID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := s.loadGoalForTagging(tx, goalID, actorID)
		if err != nil {
			return err
		}

		tags := repository.NewTagRepository(tx)
		tag, err := tags.FindByID(tagID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("tag not found")
			}
			return apperrors.Internal("failed to load tag", err)
		}
		if tag.IsSystem {
			return apperrors.Validation("system tags are managed automatically")
		}

		affected, err := tags.DeleteAssociation(goalID, tagID)
		if err != nil {
			return apperrors.Internal("failed to detach tag", err)
		}
		if affected == 0 {
			return nil
		}

		changes := NewChangeSet().Set("tags", tag.Name, nil).Changes()
		return s.events.Record(tx, actorID, models.EntityTypeGoal, goal.ID, models.EventActionUpdate, changes)
	})
}

// ApplySystemTag attaches an engine-managed tag to a goal inside the caller's
// transaction, creating the tag row in the owner's namespace on first use.
// System tag movements ride along with the operation that caused them, which
// writes its own audit entry.
func (s *TagService) ApplySystemTag(tx *gorm.DB, goal *models.Goal, name string) error {
	tags := repository.NewTagRepository(tx)

	tag, err := tags.FindByOwnerAndName(goal.OwnerID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = &models.Tag{
			OwnerID:  &goal.OwnerID,
			Name:     name,
			Color:    constants.SystemTagColors[name],
			IsSystem: true,
		}
		if err := tags.Create(tag); err != nil {
			return apperrors.Internal("failed to create system tag", err)
		}
	} else if err != nil {
		return apperrors.Internal("failed to load system tag", err)
	}

	if _, err := tags.FindAssociation(goal.ID, tag.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Internal("failed to check tag association", err)
	}

	if err := tags.CreateAssociation(&models.GoalTag{GoalID: goal.ID, TagID: tag.ID}); err != nil {
		return apperrors.Internal("failed to apply system tag", err)
	}
	return nil
}

// RemoveSystemTag detaches an engine-managed tag inside the caller's
// transaction; absent tags are ignored.
func (s *TagService) RemoveSystemTag(tx *gorm.DB, goal *models.Goal, name string) error {
	tags := repository.NewTagRepository(tx)

	tag, err := tags.FindByOwnerAndName(goal.OwnerID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	} else if err != nil {
		return apperrors.Internal("failed to load system tag", err)
	}

	if _, err := tags.DeleteAssociation(goal.ID, tag.ID); err != nil {
		return apperrors.Internal("failed to remove system tag", err)
	}
	return nil
}

func (s *TagService) loadGoalForTagging(tx *gorm.DB, goalID, actorID uint64) (*models.Goal, error) {
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

func isSystemTagName(name string) bool {
	return strings.EqualFold(name, constants.SystemTagShared) ||
		strings.EqualFold(name, constants.SystemTagArchived)
}
