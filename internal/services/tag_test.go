package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/constants"
	"github.com/letsgoal/goal-tracker-api/internal/database"
	"github.com/letsgoal/goal-tracker-api/internal/models"
)

// TagServiceTestSuite defines the test suite for TagService
type TagServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TagService
}

// SetupTest runs before each test
func (suite *TagServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = database.MigrateModels(suite.db)
	suite.Require().NoError(err)

	suite.service = NewTagService(suite.db)
}

// TearDownTest runs after each test
func (suite *TagServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TagServiceTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TagServiceTestSuite) createTestGoal(title string, ownerID uint64) *models.Goal {
	goal := &models.Goal{
		OwnerID: ownerID,
		Title:   title,
		Status:  models.GoalStatusCreated,
	}
	suite.db.Create(goal)
	return goal
}

func (suite *TagServiceTestSuite) countAssociations(goalID uint64) int64 {
	var count int64
	suite.db.Model(&models.GoalTag{}).Where("goal_id = ?", goalID).Count(&count)
	return count
}

// TestCreateTag_Success tests successful tag creation
func (suite *TagServiceTestSuite) TestCreateTag_Success() {
	user := suite.createTestUser("alice")

	tag, err := suite.service.CreateTag(user.ID, "Health", "#FF5733")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Health", tag.Name)
	assert.Equal(suite.T(), "#FF5733", tag.Color)
	assert.False(suite.T(), tag.IsSystem)
	suite.Require().NotNil(tag.OwnerID)
	assert.Equal(suite.T(), user.ID, *tag.OwnerID)
}

// TestCreateTag_InvalidColor tests color validation
func (suite *TagServiceTestSuite) TestCreateTag_InvalidColor() {
	user := suite.createTestUser("alice")

	for _, color := range []string{"red", "#FFF", "FF5733", "#GG5733", "#FF57331"} {
		_, err := suite.service.CreateTag(user.ID, "Health", color)
		assert.True(suite.T(), apperrors.IsKind(err, apperrors.KindValidation), "color %q should be rejected", color)
	}
}

// TestCreateTag_ReservedName tests that system tag names cannot be taken
func (suite *TagServiceTestSuite) TestCreateTag_ReservedName() {
	user := suite.createTestUser("alice")

	_, err := suite.service.CreateTag(user.ID, constants.SystemTagShared, "#FF5733")
	assert.True(suite.T(), apperrors.IsKind(err, apperrors.KindValidation))

	_, err = suite.service.CreateTag(user.ID, "archived", "#FF5733")
	assert.True(suite.T(), apperrors.IsKind(err, apperrors.KindValidation), "reserved names are case-insensitive")
}

// TestCreateTag_DuplicateName tests case-insensitive uniqueness per owner
func (suite *TagServiceTestSuite) TestCreateTag_DuplicateName() {
	user := suite.createTestUser("alice")
	other := suite.createTestUser("bob")

	_, err := suite.service.CreateTag(user.ID, "Health", "#FF5733")
	suite.Require().NoError(err)

	_, err = suite.service.CreateTag(user.ID, "health", "#00FF00")
	assert.True(suite.T(), apperrors.IsKind(err, apperrors.KindValidation))

	// A different user can reuse the name
	_, err = suite.service.CreateTag(other.ID, "Health", "#00FF00")
	assert.NoError(suite.T(), err)
}

// TestUpdateTag_Success tests renaming and recoloring
func (suite *TagServiceTestSuite) TestUpdateTag_Success() {
	user := suite.createTestUser("alice")
	tag, err := suite.service.CreateTag(user.ID, "Health", "#FF5733")
	suite.Require().NoError(err)

	name := "Fitness"
	color := "#00FF00"
	updated, err := suite.service.UpdateTag(tag.ID, user.ID, UpdateTagInput{Name: &name, Color: &color})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Fitness", updated.Name)
	assert.Equal(suite.T(), "#00FF00", updated.Color)
}

// TestUpdateTag_OtherUsersTag tests that a tag cannot be updated by a non-owner
func (suite *TagServiceTestSuite) TestUpdateTag_OtherUsersTag() {
	user := suite.createTestUser("alice")
	other := suite.createTestUser("bob")
	tag, err := suite.service.CreateTag(user.ID, "Health", "#FF5733")
	suite.Require().NoError(err)

	name := "Stolen"
	_, err = suite.service.UpdateTag(tag.ID, other.ID, UpdateTagInput{Name: &name})
	assert.True(suite.T(), apperrors.IsKind(err, apperrors.KindPermission))
}

// TestDeleteTag_CascadesAssociations tests that deleting a tag removes its
// goal associations but not the goals
func (suite *TagServiceTestSuite) TestDeleteTag_CascadesAssociations() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)
	tag, err := suite.service.CreateTag(user.ID, "Health", "#FF5733")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Attach(goal.ID, tag.ID, user.ID))
	suite.Require().Equal(int64(1), suite.countAssociations(goal.ID))

	err = suite.service.DeleteTag(tag.ID, user.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(0), suite.countAssociations(goal.ID))

	var remaining models.Goal
	assert.NoError(suite.T(), suite.db.First(&remaining, goal.ID).Error)
}

// TestAttach_Idempotent tests that attaching twice leaves one association and
// one audit entry
func (suite *TagServiceTestSuite) TestAttach_Idempotent() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)
	tag, err := suite.service.CreateTag(user.ID, "Health", "#FF5733")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Attach(goal.ID, tag.ID, user.ID))
	suite.Require().NoError(suite.service.Attach(goal.ID, tag.ID, user.ID))

	assert.Equal(suite.T(), int64(1), suite.countAssociations(goal.ID))

	var eventCount int64
	suite.db.Model(&models.Event{}).
		Where("entity_type = ? AND entity_id = ?", models.EntityTypeGoal, goal.ID).
		Count(&eventCount)
	assert.Equal(suite.T(), int64(1), eventCount)
}

// TestAttach_OtherUsersTag tests that another user's tag cannot be attached
func (suite *TagServiceTestSuite) TestAttach_OtherUsersTag() {
	user := suite.createTestUser("alice")
	other := suite.createTestUser("bob")
	goal := suite.createTestGoal("Learn Go", user.ID)
	tag, err := suite.service.CreateTag(other.ID, "Health", "#FF5733")
	suite.Require().NoError(err)

	err = suite.service.Attach(goal.ID, tag.ID, user.ID)
	assert.True(suite.T(), apperrors.IsKind(err, apperrors.KindPermission))
}

// TestDetach_AbsentIsNoOp tests detaching a tag that was never attached
func (suite *TagServiceTestSuite) TestDetach_AbsentIsNoOp() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)
	tag, err := suite.service.CreateTag(user.ID, "Health", "#FF5733")
	suite.Require().NoError(err)

	err = suite.service.Detach(goal.ID, tag.ID, user.ID)
	assert.NoError(suite.T(), err)

	var eventCount int64
	suite.db.Model(&models.Event{}).Count(&eventCount)
	assert.Equal(suite.T(), int64(0), eventCount)
}

// TestTagLimit tests the per-user tag cap
func (suite *TagServiceTestSuite) TestTagLimit() {
	user := suite.createTestUser("alice")

	for i := 0; i < constants.MaxTagsPerUser; i++ {
		_, err := suite.service.CreateTag(user.ID, fmt.Sprintf("Tag%02d", i), "#FF5733")
		suite.Require().NoError(err)
	}

	_, err := suite.service.CreateTag(user.ID, "OneTooMany", "#FF5733")
	assert.True(suite.T(), apperrors.IsKind(err, apperrors.KindValidation))
}

// TestSystemTagsExcludedFromLimit tests that engine-managed tags don't count
func (suite *TagServiceTestSuite) TestSystemTagsExcludedFromLimit() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.service.ApplySystemTag(tx, goal, constants.SystemTagShared)
	})
	suite.Require().NoError(err)

	var tag models.Tag
	err = suite.db.Where("name = ?", constants.SystemTagShared).First(&tag).Error
	suite.Require().NoError(err)
	assert.True(suite.T(), tag.IsSystem)
	assert.Equal(suite.T(), constants.SystemTagColors[constants.SystemTagShared], tag.Color)

	// The system tag does not block a user tag of any other name
	_, err = suite.service.CreateTag(user.ID, "Health", "#FF5733")
	assert.NoError(suite.T(), err)
}

// TestApplySystemTag_Idempotent tests repeated application
func (suite *TagServiceTestSuite) TestApplySystemTag_Idempotent() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		if err := suite.service.ApplySystemTag(tx, goal, constants.SystemTagArchived); err != nil {
			return err
		}
		return suite.service.ApplySystemTag(tx, goal, constants.SystemTagArchived)
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(1), suite.countAssociations(goal.ID))

	var tagCount int64
	suite.db.Model(&models.Tag{}).Where("name = ?", constants.SystemTagArchived).Count(&tagCount)
	assert.Equal(suite.T(), int64(1), tagCount)
}

// TestAttachRejectsSystemTags tests that engine-managed tags cannot be
// hand-attached through the public operation
func (suite *TagServiceTestSuite) TestAttachRejectsSystemTags() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)
	other := suite.createTestGoal("Run a marathon", user.ID)

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.service.ApplySystemTag(tx, other, constants.SystemTagShared)
	})
	suite.Require().NoError(err)

	var sysTag models.Tag
	suite.Require().NoError(suite.db.Where("name = ?", constants.SystemTagShared).First(&sysTag).Error)

	err = suite.service.Attach(goal.ID, sysTag.ID, user.ID)
	suite.Require().Error(err)
	assert.True(suite.T(), apperrors.IsKind(err, apperrors.KindValidation))
	assert.Equal(suite.T(), int64(0), suite.countAssociations(goal.ID))
}

// TestDetachRejectsSystemTags tests that engine-managed tags cannot be
// hand-removed through the public operation
func (suite *TagServiceTestSuite) TestDetachRejectsSystemTags() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.service.ApplySystemTag(tx, goal, constants.SystemTagArchived)
	})
	suite.Require().NoError(err)

	var sysTag models.Tag
	suite.Require().NoError(suite.db.Where("name = ?", constants.SystemTagArchived).First(&sysTag).Error)

	err = suite.service.Detach(goal.ID, sysTag.ID, user.ID)
	suite.Require().Error(err)
	assert.True(suite.T(), apperrors.IsKind(err, apperrors.KindValidation))
	assert.Equal(suite.T(), int64(1), suite.countAssociations(goal.ID))
}

// TestSuite runs the test suite
func TestTagServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TagServiceTestSuite))
}
