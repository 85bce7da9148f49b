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
	"github.com/letsgoal/goal-tracker-api/internal/utils"
)

type EventHandler struct{}

func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// ListEvents returns audit events filtered by entity, actor and time range
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListEventsInput{
		Page:  params.Page,
		Limit: params.Limit,
	}

	if v := c.Query("entity_type"); v != "" {
		entityType := models.EntityType(v)
		if entityType != models.EntityTypeGoal && entityType != models.EntityTypeSubgoal {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity_type"})
			return
		}
		input.EntityType = &entityType
	}
	if v := c.Query("entity_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity_id"})
			return
		}
		input.EntityID = &id
	}
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		input.ActorUserID = &id
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
			return
		}
		input.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
			return
		}
		// make the upper bound inclusive of the whole day
		end := t.Add(24*time.Hour - time.Nanosecond)
		input.To = &end
	}

	events, total, err := services.NewEventLog(database.GetDB()).Query(userID, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": dto.ToEventDTOs(events),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
