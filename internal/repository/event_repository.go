package repository

import (
	"github.com/letsgoal/goal-tracker-api/internal/database"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create appends an event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// Query lists events matching the filter, most recent first. Only events on
// goals (and their subgoals) the viewer can access are visible.
func (r *GormEventRepository) Query(filter EventFilter) ([]models.Event, int64, error) {
	query := r.db.Model(&models.Event{})

	// Unscoped so the history of deleted goals and subgoals stays visible
	// to the users who could access them.
	accessibleGoals := r.db.Unscoped().Model(&models.Goal{}).
		Select("goals.id").
		Joins("LEFT JOIN goal_shares ON goal_shares.goal_id = goals.id").
		Where("goals.owner_id = ? OR goal_shares.user_id = ?", filter.ViewerID, filter.ViewerID)
	accessibleSubgoals := r.db.Unscoped().Model(&models.Subgoal{}).
		Select("subgoals.id").
		Where("subgoals.goal_id IN (?)", accessibleGoals)
	query = query.Where(
		"(entity_type = ? AND entity_id IN (?)) OR (entity_type = ? AND entity_id IN (?))",
		models.EntityTypeGoal, accessibleGoals,
		models.EntityTypeSubgoal, accessibleSubgoals,
	)

	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.ActorUserID != nil {
		query = query.Where("actor_user_id = ?", *filter.ActorUserID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := query.
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(utils.PaginationParams{Offset: filter.Offset, Limit: filter.Limit})).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
