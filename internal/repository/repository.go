package repository

import (
	"time"

	"github.com/letsgoal/goal-tracker-api/internal/models"
)

// GoalRepository defines the interface for goal and subgoal data access
type GoalRepository interface {
	// Create creates a new goal
	Create(goal *models.Goal) error

	// FindByID finds a goal by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Goal, error)

	// FindByIDForUpdate finds a goal by ID and takes a row lock where the
	// dialect supports one
	FindByIDForUpdate(id uint64) (*models.Goal, error)

	// ListForUser lists goals the user owns or has a share on
	ListForUser(userID uint64) ([]models.Goal, error)

	// ListByOwnerAndStatus lists the owner's goals with the given status,
	// most recently achieved first
	ListByOwnerAndStatus(ownerID uint64, status models.GoalStatus) ([]models.Goal, error)

	// ListActive lists all non-archived goals
	ListActive() ([]models.Goal, error)

	// CountByOwnerAndStatus counts the owner's goals per status
	CountByOwnerAndStatus(ownerID uint64) (map[models.GoalStatus]int64, error)

	// Save persists all fields of a goal
	Save(goal *models.Goal) error

	// Delete hard-deletes a goal row
	Delete(id uint64) error

	// CountSubgoals returns the total and achieved subgoal counts for a goal
	CountSubgoals(goalID uint64) (total int64, achieved int64, err error)

	// CreateSubgoal creates a new subgoal
	CreateSubgoal(subgoal *models.Subgoal) error

	// FindSubgoalByID finds a subgoal by ID
	FindSubgoalByID(id uint64) (*models.Subgoal, error)

	// ListSubgoals lists a goal's subgoals in display order
	ListSubgoals(goalID uint64) ([]models.Subgoal, error)

	// SaveSubgoal persists all fields of a subgoal
	SaveSubgoal(subgoal *models.Subgoal) error

	// DeleteSubgoal hard-deletes a subgoal row
	DeleteSubgoal(id uint64) error
}

// ShareRepository defines the interface for goal share data access
type ShareRepository interface {
	// Create creates a new share
	Create(share *models.GoalShare) error

	// Find finds the share for a (goal, user) pair
	Find(goalID, userID uint64) (*models.GoalShare, error)

	// ListByGoal lists all shares on a goal
	ListByGoal(goalID uint64) ([]models.GoalShare, error)

	// Delete removes the (goal, user) share and reports how many rows went
	Delete(goalID, userID uint64) (int64, error)

	// DeleteByGoal removes all shares on a goal
	DeleteByGoal(goalID uint64) error

	// CountByGoal counts the shares remaining on a goal
	CountByGoal(goalID uint64) (int64, error)
}

// TagRepository defines the interface for tag and goal-tag data access
type TagRepository interface {
	// Create creates a new tag
	Create(tag *models.Tag) error

	// FindByID finds a tag by ID
	FindByID(id uint64) (*models.Tag, error)

	// FindByOwnerAndName finds an owner's tag by case-insensitive name
	FindByOwnerAndName(ownerID uint64, name string) (*models.Tag, error)

	// ListByOwner lists an owner's tags, system tags last
	ListByOwner(ownerID uint64) ([]models.Tag, error)

	// CountUserTags counts an owner's non-system tags
	CountUserTags(ownerID uint64) (int64, error)

	// Save persists all fields of a tag
	Save(tag *models.Tag) error

	// Delete hard-deletes a tag row
	Delete(id uint64) error

	// FindAssociation finds the (goal, tag) association row
	FindAssociation(goalID, tagID uint64) (*models.GoalTag, error)

	// CreateAssociation creates a (goal, tag) association row
	CreateAssociation(assoc *models.GoalTag) error

	// DeleteAssociation removes the (goal, tag) association and reports how
	// many rows went
	DeleteAssociation(goalID, tagID uint64) (int64, error)

	// DeleteAssociationsByTag removes all associations referencing a tag
	DeleteAssociationsByTag(tagID uint64) error

	// DeleteAssociationsByGoal removes all associations on a goal
	DeleteAssociationsByGoal(goalID uint64) error
}

// EventFilter holds filtering options for querying the audit trail. ViewerID
// restricts results to events on goals the viewer owns or has a share in.
type EventFilter struct {
	ViewerID    uint64
	EntityType  *models.EntityType
	EntityID    *uint64
	ActorUserID *uint64
	From        *time.Time
	To          *time.Time
	Offset      int
	Limit       int
}

// EventRepository defines the interface for the append-only audit trail.
// There is deliberately no update or delete.
type EventRepository interface {
	// Create appends an event
	Create(event *models.Event) error

	// Query lists events matching the filter, most recent first
	Query(filter EventFilter) ([]models.Event, int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProgressEntryRepository defines the interface for progress snapshot access
type ProgressEntryRepository interface {
	// Create creates a new progress entry
	Create(entry *models.ProgressEntry) error

	// ListByGoal lists a goal's entries, newest first
	ListByGoal(goalID uint64) ([]models.ProgressEntry, error)

	// DeleteByGoal removes all entries for a goal
	DeleteByGoal(goalID uint64) error
}
