package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const MinPasswordLength = 8

// Tags
const (
	MaxTagsPerUser = 50

	SystemTagShared   = "Shared"
	SystemTagArchived = "Archived"
)

// SystemTagColors are the fixed colors for engine-managed tags.
var SystemTagColors = map[string]string{
	SystemTagShared:   "#2D9CDB",
	SystemTagArchived: "#828282",
}
