package repository

import (
	"strings"

	"github.com/letsgoal/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// Create creates a new tag
func (r *GormTagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// FindByID finds a tag by ID
func (r *GormTagRepository) FindByID(id uint64) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByOwnerAndName finds an owner's tag by case-insensitive name
func (r *GormTagRepository) FindByOwnerAndName(ownerID uint64, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("owner_id = ? AND LOWER(name) = ?", ownerID, strings.ToLower(name)).
		First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListByOwner lists an owner's tags, system tags last
func (r *GormTagRepository) ListByOwner(ownerID uint64) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Where("owner_id = ?", ownerID).
		Order("is_system ASC, name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CountUserTags counts an owner's non-system tags
func (r *GormTagRepository) CountUserTags(ownerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Tag{}).
		Where("owner_id = ? AND is_system = ?", ownerID, false).
		Count(&count).Error
	return count, err
}

// Save persists all fields of a tag
func (r *GormTagRepository) Save(tag *models.Tag) error {
	return r.db.Save(tag).Error
}

// Delete hard-deletes a tag row
func (r *GormTagRepository) Delete(id uint64) error {
	return r.db.Unscoped().Delete(&models.Tag{}, id).Error
}

// FindAssociation finds the (goal, tag) association row
func (r *GormTagRepository) FindAssociation(goalID, tagID uint64) (*models.GoalTag, error) {
	var assoc models.GoalTag
	if err := r.db.Where("goal_id = ? AND tag_id = ?", goalID, tagID).
		First(&assoc).Error; err != nil {
		return nil, err
	}
	return &assoc, nil
}

// CreateAssociation creates a (goal, tag) association row
func (r *GormTagRepository) CreateAssociation(assoc *models.GoalTag) error {
	return r.db.Create(assoc).Error
}

// DeleteAssociation removes the (goal, tag) association and reports how many
// rows went
func (r *GormTagRepository) DeleteAssociation(goalID, tagID uint64) (int64, error) {
	result := r.db.Where("goal_id = ? AND tag_id = ?", goalID, tagID).
		Delete(&models.GoalTag{})
	return result.RowsAffected, result.Error
}

// DeleteAssociationsByTag removes all associations referencing a tag
func (r *GormTagRepository) DeleteAssociationsByTag(tagID uint64) error {
	return r.db.Where("tag_id = ?", tagID).Delete(&models.GoalTag{}).Error
}

// DeleteAssociationsByGoal removes all associations on a goal
func (r *GormTagRepository) DeleteAssociationsByGoal(goalID uint64) error {
	return r.db.Where("goal_id = ?", goalID).Delete(&models.GoalTag{}).Error
}
