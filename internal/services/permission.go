package services

import "github.com/letsgoal/goal-tracker-api/internal/models"

// PermissionGuard resolves what an acting user may do with a goal. It is
// stateless: callers load the goal and its share rows and pass them in
// explicitly, so checks stay independent of how the data was fetched.
type PermissionGuard struct{}

// IsOwner reports whether the user owns the goal.
func (PermissionGuard) IsOwner(goal *models.Goal, userID uint64) bool {
	return goal != nil && goal.OwnerID == userID
}

// CanAccess reports whether the user may read the goal: the owner, or anyone
// the goal is shared with.
func (g PermissionGuard) CanAccess(goal *models.Goal, shares []models.GoalShare, userID uint64) bool {
	if g.IsOwner(goal, userID) {
		return true
	}
	for _, share := range shares {
		if share.UserID == userID {
			return true
		}
	}
	return false
}

// CanEdit reports whether the user may mutate the goal: the owner, or a user
// holding an edit share.
func (g PermissionGuard) CanEdit(goal *models.Goal, shares []models.GoalShare, userID uint64) bool {
	if g.IsOwner(goal, userID) {
		return true
	}
	for _, share := range shares {
		if share.UserID == userID && share.Permission == models.SharePermissionEdit {
			return true
		}
	}
	return false
}
