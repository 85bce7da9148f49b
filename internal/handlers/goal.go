package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/database"
	"github.com/letsgoal/goal-tracker-api/internal/dto"
	"github.com/letsgoal/goal-tracker-api/internal/middleware"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/services"
)

type GoalHandler struct{}

func NewGoalHandler() *GoalHandler {
	return &GoalHandler{}
}

// ListGoals returns the goals the current user owns or has a share on
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	goals, err := services.NewGoalService(database.GetDB()).ListGoals(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": dto.ToGoalDTOs(goals, userID)})
}

// GetGoal returns a goal with subgoals, tags and shares
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	goal, err := services.NewGoalService(database.GetDB()).GetGoal(goalID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalDTO(*goal, userID))
}

// CreateGoal creates a new goal owned by the current user
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateGoalRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		TargetDate  string `json:"target_date"`
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	targetDate, ok := parseOptionalDate(c, req.TargetDate)
	if !ok {
		return
	}

	goal, err := services.NewGoalService(database.GetDB()).CreateGoal(services.CreateGoalInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  targetDate,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGoalDTO(*goal, userID))
}

// UpdateGoal applies direct field edits to a goal
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateGoalRequest struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		TargetDate      *string `json:"target_date"`
		ClearTargetDate bool    `json:"clear_target_date"`
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := services.UpdateGoalInput{
		Title:           req.Title,
		Description:     req.Description,
		ClearTargetDate: req.ClearTargetDate,
	}
	if req.TargetDate != nil {
		targetDate, ok := parseOptionalDate(c, *req.TargetDate)
		if !ok {
			return
		}
		input.TargetDate = targetDate
	}

	goal, err := services.NewGoalService(database.GetDB()).UpdateGoal(goalID, userID, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalDTO(*goal, userID))
}

// DeleteGoal removes a goal and all of its dependent rows
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.NewGoalService(database.GetDB()).DeleteGoal(goalID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// ArchiveGoal moves a completed goal into the archive
func (h *GoalHandler) ArchiveGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	goal, err := services.NewArchiveService(database.GetDB()).Archive(goalID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalDTO(*goal, userID))
}

// UnarchiveGoal restores an archived goal to completed
func (h *GoalHandler) UnarchiveGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	goal, err := services.NewArchiveService(database.GetDB()).Unarchive(goalID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalDTO(*goal, userID))
}

// ShareGoal grants another user access to a goal
func (h *GoalHandler) ShareGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type ShareRequest struct {
		Email      string `json:"email" binding:"required,email"`
		Permission string `json:"permission"`
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Permission == "" {
		req.Permission = string(models.SharePermissionEdit)
	}

	share, err := services.NewShareService(database.GetDB()).Share(services.ShareGoalInput{
		GoalID:     goalID,
		OwnerID:    userID,
		Email:      req.Email,
		Permission: models.SharePermission(req.Permission),
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToShareDTO(*share))
}

// UnshareGoal revokes a user's access to a goal
func (h *GoalHandler) UnshareGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := services.NewShareService(database.GetDB()).Unshare(goalID, userID, targetID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Share removed"})
}

// ListShares returns the shares on a goal
func (h *GoalHandler) ListShares(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shares, err := services.NewShareService(database.GetDB()).ListShares(goalID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	dtos := make([]dto.ShareDTO, 0, len(shares))
	for _, share := range shares {
		dtos = append(dtos, dto.ToShareDTO(share))
	}
	c.JSON(http.StatusOK, gin.H{"shares": dtos})
}

// parseIDParam parses a numeric URL parameter, writing a 400 on failure
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// parseOptionalDate parses a YYYY-MM-DD field, writing a 400 on failure.
// Empty input yields nil.
func parseOptionalDate(c *gin.Context, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be formatted YYYY-MM-DD"})
		return nil, false
	}
	return &parsed, true
}
