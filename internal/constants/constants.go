package constants

// Context keys set by the auth middleware.
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
)

// Counter names, one per allocated entity type.
const (
	CounterUsers = "users"
	CounterTasks = "tasks"
)

// Pagination bounds for task listing.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Field constraints.
const (
	MinPasswordLength    = 8
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)
