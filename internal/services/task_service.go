package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mnakayama/task-manager-api/internal/constants"
	"github.com/mnakayama/task-manager-api/internal/models"
	"github.com/mnakayama/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title must be at most 200 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 2000 characters")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrAssigneeNotFound = errors.New("target user not found")
)

// CanAccessTask is the uniform ownership rule: the owner or an admin may
// read, update, delete or complete a task.
func CanAccessTask(user *models.User, task *models.Task) bool {
	return task.UserID == user.ID || user.IsAdmin
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo      repository.TaskRepository
	userRepo      repository.UserRepository
	counterRepo   repository.CounterRepository
	notifications *NotificationService
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	counterRepo repository.CounterRepository,
	notifications *NotificationService,
) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		userRepo:      userRepo,
		counterRepo:   counterRepo,
		notifications: notifications,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    models.Priority
	DueDate     *time.Time
}

// UpdateTaskInput carries only the fields the caller intends to change; nil
// fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	Status      *models.TaskStatus
	DueDate     *time.Time
	AssignedTo  *int64
}

// ListTasksInput represents filters for listing an owner's tasks
type ListTasksInput struct {
	UserID   int64
	Status   *models.TaskStatus
	Priority *models.Priority
	Skip     int
	Limit    int
}

// CreateTask creates a new task owned by userID.
func (s *TaskService) CreateTask(input CreateTaskInput, userID int64) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if len(input.Title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if input.Description != nil && len(*input.Description) > constants.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}

	id, err := s.counterRepo.NextID(constants.CounterTasks)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate task id: %w", err)
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      models.TaskStatusPending,
		DueDate:     input.DueDate,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task by ID.
func (s *TaskService) GetTask(id int64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks returns an owner's tasks matching the filters.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	if input.Status != nil && !models.ValidTaskStatus(*input.Status) {
		return nil, ErrInvalidStatus
	}
	if input.Priority != nil && !models.ValidPriority(*input.Priority) {
		return nil, ErrInvalidPriority
	}

	if input.Skip < 0 {
		input.Skip = 0
	}
	if input.Limit < 1 || input.Limit > constants.MaxPageSize {
		input.Limit = constants.DefaultPageSize
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		UserID:   input.UserID,
		Status:   input.Status,
		Priority: input.Priority,
		Skip:     input.Skip,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask applies a partial update. Only the set fields reach the store,
// in one update call; updated_at is always refreshed.
func (s *TaskService) UpdateTask(id int64, input UpdateTaskInput) (*models.Task, error) {
	fields := make(map[string]interface{})

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		if len(*input.Title) > constants.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		if len(*input.Description) > constants.MaxDescriptionLength {
			return nil, ErrDescriptionTooLong
		}
		fields["description"] = *input.Description
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		fields["priority"] = *input.Priority
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *input.Status
	}
	if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}
	if input.AssignedTo != nil {
		fields["assigned_to"] = *input.AssignedTo
	}

	task, err := s.taskRepo.Patch(id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(id int64) error {
	if err := s.taskRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// CompleteTask marks a task completed.
func (s *TaskService) CompleteTask(id int64) (*models.Task, error) {
	status := models.TaskStatusCompleted
	return s.UpdateTask(id, UpdateTaskInput{Status: &status})
}

// AssignTask assigns a task to another user. The target must exist.
func (s *TaskService) AssignTask(id, targetUserID int64) (*models.Task, error) {
	target, err := s.userRepo.FindByID(targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find target user: %w", err)
	}

	task, err := s.UpdateTask(id, UpdateTaskInput{AssignedTo: &target.ID})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		s.notifications.Send(SendNotificationInput{
			UserID:   target.ID,
			Title:    "Task assigned to you",
			Message:  fmt.Sprintf("You have been assigned the task %q", task.Title),
			Type:     models.NotificationInApp,
			Priority: models.NotificationPriorityNormal,
		})
	}

	return task, nil
}

// Statistics aggregates the owner's tasks.
func (s *TaskService) Statistics(userID int64) (*repository.TaskStatistics, error) {
	stats, err := s.taskRepo.Statistics(userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	return stats, nil
}
