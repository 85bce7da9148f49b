package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/letsgoal/goal-tracker-api/internal/database"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/services"
)

// GoalHandlerTestSuite defines the test suite for GoalHandler
type GoalHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *GoalHandler
}

// SetupTest runs before each test
func (suite *GoalHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = database.MigrateModels(suite.db)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	suite.handler = NewGoalHandler()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *GoalHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *GoalHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *GoalHandlerTestSuite) createTestGoal(title string, ownerID uint64) *models.Goal {
	goal, err := services.NewGoalService(suite.db).CreateGoal(services.CreateGoalInput{
		OwnerID: ownerID,
		Title:   title,
	})
	suite.Require().NoError(err)
	return goal
}

// Helper function to create authenticated context
func (suite *GoalHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

func (suite *GoalHandlerTestSuite) setIDParam(c *gin.Context, value string) {
	c.Params = append(c.Params, gin.Param{Key: "id", Value: value})
}

// TestListGoals_Success tests successful goal listing
func (suite *GoalHandlerTestSuite) TestListGoals_Success() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)

	c, w := suite.createAuthContext("GET", "/api/goals", nil, user.ID)

	suite.handler.ListGoals(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response, "goals")

	goals := response["goals"].([]interface{})
	suite.Require().Len(goals, 1)

	first := goals[0].(map[string]interface{})
	assert.Equal(suite.T(), goal.Title, first["title"])
	assert.Equal(suite.T(), true, first["is_owner"])
}

// TestListGoals_Unauthorized tests listing without authentication
func (suite *GoalHandlerTestSuite) TestListGoals_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/goals", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.ListGoals(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestCreateGoal_Success tests successful goal creation
func (suite *GoalHandlerTestSuite) TestCreateGoal_Success() {
	user := suite.createTestUser("alice")

	requestBody := map[string]interface{}{
		"title":       "Learn Go",
		"description": "Work through the book",
		"target_date": "2026-12-31",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/goals", body, user.ID)

	suite.handler.CreateGoal(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Learn Go", response["title"])
	assert.Equal(suite.T(), "created", response["status"])
	assert.Equal(suite.T(), float64(0), response["progress"])
}

// TestCreateGoal_InvalidDate tests date format validation
func (suite *GoalHandlerTestSuite) TestCreateGoal_InvalidDate() {
	user := suite.createTestUser("alice")

	requestBody := map[string]interface{}{
		"title":       "Learn Go",
		"target_date": "31/12/2026",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/goals", body, user.ID)

	suite.handler.CreateGoal(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateGoal_MissingTitle tests goal creation without a title
func (suite *GoalHandlerTestSuite) TestCreateGoal_MissingTitle() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]interface{}{"description": "no title"})

	c, w := suite.createAuthContext("POST", "/api/goals", body, user.ID)

	suite.handler.CreateGoal(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetGoal_Success tests goal retrieval
func (suite *GoalHandlerTestSuite) TestGetGoal_Success() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)

	c, w := suite.createAuthContext("GET", "/api/goals/1", nil, user.ID)
	suite.setIDParam(c, "1")

	suite.handler.GetGoal(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), float64(goal.ID), response["id"])
	assert.Equal(suite.T(), goal.Title, response["title"])
}

// TestGetGoal_Stranger tests that another user's goal is forbidden
func (suite *GoalHandlerTestSuite) TestGetGoal_Stranger() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestGoal("Learn Go", alice.ID)

	c, w := suite.createAuthContext("GET", "/api/goals/1", nil, bob.ID)
	suite.setIDParam(c, "1")

	suite.handler.GetGoal(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestGetGoal_NotFound tests retrieval of a missing goal
func (suite *GoalHandlerTestSuite) TestGetGoal_NotFound() {
	user := suite.createTestUser("alice")

	c, w := suite.createAuthContext("GET", "/api/goals/999", nil, user.ID)
	suite.setIDParam(c, "999")

	suite.handler.GetGoal(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUpdateGoal_Success tests a field edit
func (suite *GoalHandlerTestSuite) TestUpdateGoal_Success() {
	user := suite.createTestUser("alice")
	suite.createTestGoal("Old Title", user.ID)

	body, _ := json.Marshal(map[string]interface{}{"title": "New Title"})

	c, w := suite.createAuthContext("PATCH", "/api/goals/1", body, user.ID)
	suite.setIDParam(c, "1")

	suite.handler.UpdateGoal(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Title", response["title"])
}

// TestDeleteGoal_Success tests goal deletion
func (suite *GoalHandlerTestSuite) TestDeleteGoal_Success() {
	user := suite.createTestUser("alice")
	goal := suite.createTestGoal("Learn Go", user.ID)

	c, w := suite.createAuthContext("DELETE", "/api/goals/1", nil, user.ID)
	suite.setIDParam(c, "1")

	suite.handler.DeleteGoal(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var deleted models.Goal
	err := suite.db.First(&deleted, goal.ID).Error
	assert.Error(suite.T(), err)
}

// TestArchiveGoal_NotCompleted tests the lifecycle gate status mapping
func (suite *GoalHandlerTestSuite) TestArchiveGoal_NotCompleted() {
	user := suite.createTestUser("alice")
	suite.createTestGoal("Learn Go", user.ID)

	c, w := suite.createAuthContext("POST", "/api/goals/1/archive", nil, user.ID)
	suite.setIDParam(c, "1")

	suite.handler.ArchiveGoal(c)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

// TestShareGoal_Success tests sharing via the API
func (suite *GoalHandlerTestSuite) TestShareGoal_Success() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestGoal("Learn Go", alice.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"email":      bob.Email,
		"permission": "view",
	})

	c, w := suite.createAuthContext("POST", "/api/goals/1/shares", body, alice.ID)
	suite.setIDParam(c, "1")

	suite.handler.ShareGoal(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), float64(bob.ID), response["user_id"])
	assert.Equal(suite.T(), "view", response["permission"])
}

// TestShareGoal_Duplicate tests the conflict mapping
func (suite *GoalHandlerTestSuite) TestShareGoal_Duplicate() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestGoal("Learn Go", alice.ID)

	body, _ := json.Marshal(map[string]interface{}{"email": bob.Email})

	c, w := suite.createAuthContext("POST", "/api/goals/1/shares", body, alice.ID)
	suite.setIDParam(c, "1")
	suite.handler.ShareGoal(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	c, w = suite.createAuthContext("POST", "/api/goals/1/shares", body, alice.ID)
	suite.setIDParam(c, "1")
	suite.handler.ShareGoal(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestUnshareGoal_Success tests revoking a share via the API
func (suite *GoalHandlerTestSuite) TestUnshareGoal_Success() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	goal := suite.createTestGoal("Learn Go", alice.ID)

	_, err := services.NewShareService(suite.db).Share(services.ShareGoalInput{
		GoalID: goal.ID, OwnerID: alice.ID, Email: bob.Email, Permission: models.SharePermissionView,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("DELETE", "/api/goals/1/shares/2", nil, alice.ID)
	suite.setIDParam(c, "1")
	c.Params = append(c.Params, gin.Param{Key: "user_id", Value: "2"})

	suite.handler.UnshareGoal(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.GoalShare{}).Where("goal_id = ?", goal.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestSuite runs the test suite
func TestGoalHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GoalHandlerTestSuite))
}
