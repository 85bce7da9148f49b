package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Goal indexes for listing and status filtering
		{"goals", "idx_goals_owner_id", "owner_id"},
		{"goals", "idx_goals_status", "status"},
		{"goals", "idx_goals_achieved_date", "achieved_date"},

		// Subgoal lookup and ordering
		{"subgoals", "idx_subgoals_goal_id", "goal_id"},
		{"subgoals", "idx_subgoals_order", "goal_id, order_index"},

		// Share lookups in both directions
		{"goal_shares", "idx_goal_shares_goal_id", "goal_id"},
		{"goal_shares", "idx_goal_shares_user_id", "user_id"},

		// Event query filters
		{"events", "idx_events_entity_type_id", "entity_type, entity_id"},
		{"events", "idx_events_actor_user_id", "actor_user_id"},
		{"events", "idx_events_created_at", "created_at"},

		// Progress trend queries
		{"progress_entries", "idx_progress_entries_goal_date", "goal_id, entry_date"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
