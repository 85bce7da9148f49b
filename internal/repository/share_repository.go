package repository

import (
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormShareRepository is a GORM implementation of ShareRepository
type GormShareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new ShareRepository
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &GormShareRepository{db: db}
}

// Create creates a new share
func (r *GormShareRepository) Create(share *models.GoalShare) error {
	return r.db.Create(share).Error
}

// Find finds the share for a (goal, user) pair
func (r *GormShareRepository) Find(goalID, userID uint64) (*models.GoalShare, error) {
	var share models.GoalShare
	if err := r.db.Where("goal_id = ? AND user_id = ?", goalID, userID).
		First(&share).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

// ListByGoal lists all shares on a goal
func (r *GormShareRepository) ListByGoal(goalID uint64) ([]models.GoalShare, error) {
	var shares []models.GoalShare
	if err := r.db.Where("goal_id = ?", goalID).
		Preload("User").
		Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

// Delete removes the (goal, user) share and reports how many rows went
func (r *GormShareRepository) Delete(goalID, userID uint64) (int64, error) {
	result := r.db.Where("goal_id = ? AND user_id = ?", goalID, userID).
		Delete(&models.GoalShare{})
	return result.RowsAffected, result.Error
}

// DeleteByGoal removes all shares on a goal
func (r *GormShareRepository) DeleteByGoal(goalID uint64) error {
	return r.db.Where("goal_id = ?", goalID).Delete(&models.GoalShare{}).Error
}

// CountByGoal counts the shares remaining on a goal
func (r *GormShareRepository) CountByGoal(goalID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.GoalShare{}).
		Where("goal_id = ?", goalID).
		Count(&count).Error
	return count, err
}
