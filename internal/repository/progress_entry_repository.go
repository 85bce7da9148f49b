package repository

import (
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormProgressEntryRepository is a GORM implementation of ProgressEntryRepository
type GormProgressEntryRepository struct {
	db *gorm.DB
}

// NewProgressEntryRepository creates a new ProgressEntryRepository
func NewProgressEntryRepository(db *gorm.DB) ProgressEntryRepository {
	return &GormProgressEntryRepository{db: db}
}

// Create creates a new progress entry
func (r *GormProgressEntryRepository) Create(entry *models.ProgressEntry) error {
	return r.db.Create(entry).Error
}

// ListByGoal lists a goal's entries, newest first. For a day with multiple
// entries the first row returned is the superseding one.
func (r *GormProgressEntryRepository) ListByGoal(goalID uint64) ([]models.ProgressEntry, error) {
	var entries []models.ProgressEntry
	err := r.db.Where("goal_id = ?", goalID).
		Order("entry_date DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByGoal removes all entries for a goal
func (r *GormProgressEntryRepository) DeleteByGoal(goalID uint64) error {
	return r.db.Where("goal_id = ?", goalID).Delete(&models.ProgressEntry{}).Error
}
