package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/database"
	"github.com/letsgoal/goal-tracker-api/internal/dto"
	"github.com/letsgoal/goal-tracker-api/internal/middleware"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/services"
)

type SubgoalHandler struct{}

func NewSubgoalHandler() *SubgoalHandler {
	return &SubgoalHandler{}
}

// CreateSubgoal adds a subgoal to a goal
func (h *SubgoalHandler) CreateSubgoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateSubgoalRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		TargetDate  string `json:"target_date"`
		OrderIndex  int    `json:"order_index"`
	}

	var req CreateSubgoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	targetDate, ok := parseOptionalDate(c, req.TargetDate)
	if !ok {
		return
	}

	subgoal, err := services.NewGoalService(database.GetDB()).CreateSubgoal(goalID, userID, services.CreateSubgoalInput{
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  targetDate,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubgoalDTO(*subgoal))
}

// UpdateSubgoal applies field edits to a subgoal
func (h *SubgoalHandler) UpdateSubgoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	subgoalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateSubgoalRequest struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		TargetDate      *string `json:"target_date"`
		ClearTargetDate bool    `json:"clear_target_date"`
		Status          *string `json:"status"`
		OrderIndex      *int    `json:"order_index"`
	}

	var req UpdateSubgoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := services.UpdateSubgoalInput{
		Title:           req.Title,
		Description:     req.Description,
		ClearTargetDate: req.ClearTargetDate,
		OrderIndex:      req.OrderIndex,
	}
	if req.TargetDate != nil {
		targetDate, ok := parseOptionalDate(c, *req.TargetDate)
		if !ok {
			return
		}
		input.TargetDate = targetDate
	}
	if req.Status != nil {
		status := models.SubgoalStatus(*req.Status)
		input.Status = &status
	}

	subgoal, err := services.NewGoalService(database.GetDB()).UpdateSubgoal(subgoalID, userID, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubgoalDTO(*subgoal))
}

// DeleteSubgoal removes a subgoal
func (h *SubgoalHandler) DeleteSubgoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	subgoalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.NewGoalService(database.GetDB()).DeleteSubgoal(subgoalID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subgoal deleted successfully"})
}
