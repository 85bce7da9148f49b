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

type TagHandler struct{}

func NewTagHandler() *TagHandler {
	return &TagHandler{}
}

// ListTags returns the current user's tags
func (h *TagHandler) ListTags(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	tags, err := services.NewTagService(database.GetDB()).ListTags(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	dtos := make([]dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		dtos = append(dtos, dto.ToTagDTO(tag))
	}
	c.JSON(http.StatusOK, gin.H{"tags": dtos})
}

// CreateTag creates a new user tag
func (h *TagHandler) CreateTag(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateTagRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color" binding:"required"`
	}

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tag, err := services.NewTagService(database.GetDB()).CreateTag(userID, req.Name, req.Color)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTagDTO(*tag))
}

// UpdateTag renames or recolors a user tag
func (h *TagHandler) UpdateTag(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	tagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTagRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tag, err := services.NewTagService(database.GetDB()).UpdateTag(tagID, userID, services.UpdateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTagDTO(*tag))
}

// DeleteTag removes a user tag and its goal associations
func (h *TagHandler) DeleteTag(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	tagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.NewTagService(database.GetDB()).DeleteTag(tagID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted successfully"})
}

// AttachTag associates a tag with a goal
func (h *TagHandler) AttachTag(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tag_id")
	if !ok {
		return
	}

	if err := services.NewTagService(database.GetDB()).Attach(goalID, tagID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag attached"})
}

// DetachTag removes a tag from a goal
func (h *TagHandler) DetachTag(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tag_id")
	if !ok {
		return
	}

	if err := services.NewTagService(database.GetDB()).Detach(goalID, tagID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag detached"})
}
