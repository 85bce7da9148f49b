package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/letsgoal/goal-tracker-api/internal/models"
)

func TestPermissionGuard_IsOwner(t *testing.T) {
	guard := PermissionGuard{}
	goal := &models.Goal{OwnerID: 1}

	assert.True(t, guard.IsOwner(goal, 1))
	assert.False(t, guard.IsOwner(goal, 2))
	assert.False(t, guard.IsOwner(nil, 1))
}

func TestPermissionGuard_CanAccess(t *testing.T) {
	guard := PermissionGuard{}
	goal := &models.Goal{OwnerID: 1}
	shares := []models.GoalShare{
		{UserID: 2, Permission: models.SharePermissionEdit},
		{UserID: 3, Permission: models.SharePermissionView},
	}

	assert.True(t, guard.CanAccess(goal, shares, 1), "owner can access")
	assert.True(t, guard.CanAccess(goal, shares, 2), "edit share can access")
	assert.True(t, guard.CanAccess(goal, shares, 3), "view share can access")
	assert.False(t, guard.CanAccess(goal, shares, 4), "stranger cannot access")
	assert.False(t, guard.CanAccess(goal, nil, 4))
}

func TestPermissionGuard_CanEdit(t *testing.T) {
	guard := PermissionGuard{}
	goal := &models.Goal{OwnerID: 1}
	shares := []models.GoalShare{
		{UserID: 2, Permission: models.SharePermissionEdit},
		{UserID: 3, Permission: models.SharePermissionView},
	}

	assert.True(t, guard.CanEdit(goal, shares, 1), "owner can edit")
	assert.True(t, guard.CanEdit(goal, shares, 2), "edit share can edit")
	assert.False(t, guard.CanEdit(goal, shares, 3), "view share cannot edit")
	assert.False(t, guard.CanEdit(goal, shares, 4), "stranger cannot edit")
}
