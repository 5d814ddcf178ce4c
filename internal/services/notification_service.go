package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mnakayama/task-manager-api/internal/models"
	"github.com/mnakayama/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService stores and delivers notifications through the channel
// each one targets, honoring per-user channel preferences.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// SendNotificationInput describes one notification to deliver.
type SendNotificationInput struct {
	UserID   int64
	Title    string
	Message  string
	Type     models.NotificationType
	Priority models.NotificationPriority
}

// Send stores a notification and attempts delivery. Delivery is skipped, not
// failed, when the target user has disabled the channel.
func (s *NotificationService) Send(input SendNotificationInput) (*models.Notification, error) {
	if input.Type == "" {
		input.Type = models.NotificationInApp
	}
	if input.Priority == "" {
		input.Priority = models.NotificationPriorityNormal
	}

	notification := &models.Notification{
		UserID:    input.UserID,
		Title:     input.Title,
		Message:   input.Message,
		Type:      input.Type,
		Priority:  input.Priority,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(notification); err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	if s.deliver(notification) {
		now := time.Now().UTC()
		notification.SentAt = &now
		if err := s.repo.Update(notification); err != nil {
			return nil, fmt.Errorf("failed to mark notification sent: %w", err)
		}
	}

	return notification, nil
}

// ListForUser returns a user's notifications, optionally unread only.
func (s *NotificationService) ListForUser(userID int64, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.ListByUser(userID, unreadOnly)
}

// MarkRead stamps a notification as read. Only the recipient may mark it.
func (s *NotificationService) MarkRead(id, userID int64) (*models.Notification, error) {
	notification, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, ErrNotificationNotFound
	}

	now := time.Now().UTC()
	notification.ReadAt = &now
	if err := s.repo.Update(notification); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return notification, nil
}

// SetPreferences stores a user's channel preferences.
func (s *NotificationService) SetPreferences(userID int64, prefs models.NotificationPreferences) {
	s.repo.SetPreferences(userID, prefs)
}

// Preferences returns a user's channel preferences.
func (s *NotificationService) Preferences(userID int64) models.NotificationPreferences {
	return s.repo.Preferences(userID)
}

func (s *NotificationService) deliver(n *models.Notification) bool {
	prefs := s.repo.Preferences(n.UserID)

	switch n.Type {
	case models.NotificationEmail:
		if !prefs.EmailEnabled {
			return false
		}
		log.Printf("[EMAIL] To user %d: %s", n.UserID, n.Title)
	case models.NotificationPush:
		if !prefs.PushEnabled {
			return false
		}
		log.Printf("[PUSH] To user %d: %s", n.UserID, n.Title)
	case models.NotificationSMS:
		if !prefs.SMSEnabled {
			return false
		}
		log.Printf("[SMS] To user %d: %s", n.UserID, n.Title)
	}
	// In-app delivery is the stored record itself.
	return true
}
