package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/database"
	"github.com/letsgoal/goal-tracker-api/internal/dto"
	"github.com/letsgoal/goal-tracker-api/internal/middleware"
	"github.com/letsgoal/goal-tracker-api/internal/services"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// GetDashboardStats returns goal counts per status and the achievement rate
func (h *ReportHandler) GetDashboardStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	stats, err := services.NewReportService(database.GetDB()).GetDashboardStats(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetHistoryReport returns completed and archived goals with timing analysis
func (h *ReportHandler) GetHistoryReport(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	report, err := services.NewReportService(database.GetDB()).GetHistoryReport(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// AddProgressEntry records a manual progress snapshot for a goal
func (h *ReportHandler) AddProgressEntry(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type ProgressEntryRequest struct {
		Notes string `json:"notes"`
	}

	var req ProgressEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	entry, err := services.NewReportService(database.GetDB()).AddProgressEntry(goalID, userID, req.Notes)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProgressEntryDTO(*entry))
}

// ListProgressEntries returns a goal's progress snapshots, newest first
func (h *ReportHandler) ListProgressEntries(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := services.NewReportService(database.GetDB()).ListProgressEntries(goalID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": dto.ToProgressEntryDTOs(entries)})
}
