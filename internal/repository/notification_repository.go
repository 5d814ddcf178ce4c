package repository

import (
	"sort"
	"sync"

	"github.com/mnakayama/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// MemoryNotificationRepository is an in-memory NotificationRepository.
type MemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications map[int64]models.Notification
	preferences   map[int64]models.NotificationPreferences
	sequence      int64
}

// NewNotificationRepository creates an in-memory NotificationRepository
func NewNotificationRepository() NotificationRepository {
	return &MemoryNotificationRepository{
		notifications: make(map[int64]models.Notification),
		preferences:   make(map[int64]models.NotificationPreferences),
	}
}

// Create stores a notification, allocating its ID from the store's sequence.
func (r *MemoryNotificationRepository) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sequence++
	notification.ID = r.sequence
	r.notifications[notification.ID] = *notification
	return nil
}

// Update replaces a stored notification
func (r *MemoryNotificationRepository) Update(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[notification.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.notifications[notification.ID] = *notification
	return nil
}

// FindByID finds a notification by ID
func (r *MemoryNotificationRepository) FindByID(id int64) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

// ListByUser returns a user's notifications, newest first.
func (r *MemoryNotificationRepository) ListByUser(userID int64, unreadOnly bool) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// Preferences returns a user's channel preferences, defaulting to all enabled.
func (r *MemoryNotificationRepository) Preferences(userID int64) models.NotificationPreferences {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefs, ok := r.preferences[userID]
	if !ok {
		return models.DefaultNotificationPreferences()
	}
	return prefs
}

// SetPreferences stores a user's channel preferences
func (r *MemoryNotificationRepository) SetPreferences(userID int64, prefs models.NotificationPreferences) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.preferences[userID] = prefs
}
