package repository

import (
	"time"

	"github.com/mnakayama/task-manager-api/internal/models"
)

// CounterRepository allocates monotonically increasing IDs per entity type.
type CounterRepository interface {
	// NextID atomically increments and returns the sequence for name,
	// creating the counter at zero if it does not exist. Two concurrent
	// calls for the same name never return the same value.
	NextID(name string) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create persists a new user. A duplicate email or username surfaces
	// as gorm.ErrDuplicatedKey.
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id int64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// UpdateLastLogin stamps the user's last successful authentication.
	UpdateLastLogin(id int64, at time.Time) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID   int64
	Status   *models.TaskStatus
	Priority *models.Priority
	Skip     int
	Limit    int
}

// TaskStatistics is the aggregate over one owner's tasks.
type TaskStatistics struct {
	Total        int64                       `json:"total"`
	ByStatus     map[models.TaskStatus]int64 `json:"by_status"`
	ByPriority   map[models.Priority]int64   `json:"by_priority"`
	OverdueCount int64                       `json:"overdue_count"`
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id int64) (*models.Task, error)

	// List retrieves an owner's tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, error)

	// Patch applies only the given fields to the task with the given id in
	// a single update and returns the updated record. Returns
	// gorm.ErrRecordNotFound if no such task exists.
	Patch(id int64, fields map[string]interface{}) (*models.Task, error)

	// Delete removes a task. Returns gorm.ErrRecordNotFound if absent.
	Delete(id int64) error

	// Statistics aggregates an owner's tasks from one snapshot read.
	Statistics(userID int64, now time.Time) (*TaskStatistics, error)
}

// CommentRepository is a keyed store for task comments. The default
// implementation is in-memory; the interface keeps call sites independent of
// the backing store.
type CommentRepository interface {
	Create(comment *models.Comment) error
	ListByTask(taskID int64) ([]models.Comment, error)
	Delete(id int64) error
}

// NotificationRepository is a keyed store for notifications and per-user
// delivery preferences.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	Update(notification *models.Notification) error
	FindByID(id int64) (*models.Notification, error)
	ListByUser(userID int64, unreadOnly bool) ([]models.Notification, error)
	Preferences(userID int64) models.NotificationPreferences
	SetPreferences(userID int64, prefs models.NotificationPreferences)
}
