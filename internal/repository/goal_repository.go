package repository

import (
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGoalRepository is a GORM implementation of GoalRepository
type GormGoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new GoalRepository bound to the given handle,
// which may be a transaction.
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &GormGoalRepository{db: db}
}

// Create creates a new goal
func (r *GormGoalRepository) Create(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

// FindByID finds a goal by ID with optional preloading
func (r *GormGoalRepository) FindByID(id uint64, preload ...string) (*models.Goal, error) {
	var goal models.Goal
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&goal, id).Error; err != nil {
		return nil, err
	}

	return &goal, nil
}

// FindByIDForUpdate finds a goal by ID under a row lock so that concurrent
// mutations of the same goal serialize. SQLite has no row locks (the write
// lock is per database), so the clause is skipped there.
func (r *GormGoalRepository) FindByIDForUpdate(id uint64) (*models.Goal, error) {
	var goal models.Goal
	query := r.db
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListForUser lists goals the user owns or has a share on
func (r *GormGoalRepository) ListForUser(userID uint64) ([]models.Goal, error) {
	var goals []models.Goal

	shareSubQuery := r.db.Model(&models.GoalShare{}).
		Select("goal_shares.goal_id").
		Where("goal_shares.user_id = ?", userID)

	err := r.db.
		Where("goals.owner_id = ? OR goals.id IN (?)", userID, shareSubQuery).
		Preload("Subgoals", func(db *gorm.DB) *gorm.DB {
			return db.Order("subgoals.order_index ASC, subgoals.id ASC")
		}).
		Preload("Tags").
		Preload("Shares").
		Preload("Shares.User").
		Order("goals.created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// ListByOwnerAndStatus lists the owner's goals with the given status
func (r *GormGoalRepository) ListByOwnerAndStatus(ownerID uint64, status models.GoalStatus) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.
		Where("owner_id = ? AND status = ?", ownerID, status).
		Order("CASE WHEN achieved_date IS NULL THEN 1 ELSE 0 END, achieved_date DESC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// ListActive lists all non-archived goals
func (r *GormGoalRepository) ListActive() ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.
		Where("status <> ?", models.GoalStatusArchived).
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// CountByOwnerAndStatus counts the owner's goals per status
func (r *GormGoalRepository) CountByOwnerAndStatus(ownerID uint64) (map[models.GoalStatus]int64, error) {
	type row struct {
		Status models.GoalStatus
		Count  int64
	}
	var rows []row
	err := r.db.Model(&models.Goal{}).
		Select("status, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.GoalStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Save persists all fields of a goal
func (r *GormGoalRepository) Save(goal *models.Goal) error {
	return r.db.Save(goal).Error
}

// Delete hard-deletes a goal row. Cascading to dependent rows is the
// service's responsibility so each removal gets its own audit entry.
func (r *GormGoalRepository) Delete(id uint64) error {
	return r.db.Unscoped().Delete(&models.Goal{}, id).Error
}

// CountSubgoals returns the total and achieved subgoal counts for a goal
func (r *GormGoalRepository) CountSubgoals(goalID uint64) (int64, int64, error) {
	var total int64
	if err := r.db.Model(&models.Subgoal{}).
		Where("goal_id = ?", goalID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var achieved int64
	if err := r.db.Model(&models.Subgoal{}).
		Where("goal_id = ? AND status = ?", goalID, models.SubgoalStatusAchieved).
		Count(&achieved).Error; err != nil {
		return 0, 0, err
	}

	return total, achieved, nil
}

// CreateSubgoal creates a new subgoal
func (r *GormGoalRepository) CreateSubgoal(subgoal *models.Subgoal) error {
	return r.db.Create(subgoal).Error
}

// FindSubgoalByID finds a subgoal by ID
func (r *GormGoalRepository) FindSubgoalByID(id uint64) (*models.Subgoal, error) {
	var subgoal models.Subgoal
	if err := r.db.First(&subgoal, id).Error; err != nil {
		return nil, err
	}
	return &subgoal, nil
}

// ListSubgoals lists a goal's subgoals in display order
func (r *GormGoalRepository) ListSubgoals(goalID uint64) ([]models.Subgoal, error) {
	var subgoals []models.Subgoal
	err := r.db.
		Where("goal_id = ?", goalID).
		Order("order_index ASC, id ASC").
		Find(&subgoals).Error
	if err != nil {
		return nil, err
	}
	return subgoals, nil
}

// SaveSubgoal persists all fields of a subgoal
func (r *GormGoalRepository) SaveSubgoal(subgoal *models.Subgoal) error {
	return r.db.Save(subgoal).Error
}

// DeleteSubgoal hard-deletes a subgoal row
func (r *GormGoalRepository) DeleteSubgoal(id uint64) error {
	return r.db.Unscoped().Delete(&models.Subgoal{}, id).Error
}
