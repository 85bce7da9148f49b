package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/database"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/services"
)

// RequireGoalAccess checks if the user may read the goal named in the URL.
func RequireGoalAccess() gin.HandlerFunc {
	var guard services.PermissionGuard

	return func(c *gin.Context) {
		goalIDStr := c.Param("id")
		goalID, err := strconv.ParseUint(goalIDStr, 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid goal ID"))
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apperrors.Respond(c, apperrors.Unauthorized("Authentication required"))
			c.Abort()
			return
		}

		var goal models.Goal
		if err := database.GetDB().
			Preload("Shares").
			First(&goal, goalID).Error; err != nil {
			apperrors.Respond(c, apperrors.NotFound("goal not found"))
			c.Abort()
			return
		}

		if !guard.CanAccess(&goal, goal.Shares, userID) {
			apperrors.Respond(c, apperrors.Permission("you do not have access to this goal"))
			c.Abort()
			return
		}

		c.Next()
	}
}
