package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mnakayama/task-manager-api/internal/models"
	"github.com/mnakayama/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentTextRequired = errors.New("comment text is required")
)

// CommentService handles task comments.
type CommentService struct {
	repo repository.CommentRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(repo repository.CommentRepository) *CommentService {
	return &CommentService{repo: repo}
}

// CreateComment adds a comment to a task on behalf of userID.
func (s *CommentService) CreateComment(taskID, userID int64, text string) (*models.Comment, error) {
	if text == "" {
		return nil, ErrCommentTextRequired
	}

	comment := &models.Comment{
		TaskID:    taskID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListComments returns all comments on a task in creation order.
func (s *CommentService) ListComments(taskID int64) ([]models.Comment, error) {
	return s.repo.ListByTask(taskID)
}

// DeleteComment removes a comment.
func (s *CommentService) DeleteComment(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}
