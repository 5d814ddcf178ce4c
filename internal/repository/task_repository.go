package repository

import (
	"time"

	"github.com/mnakayama/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id int64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves an owner's tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("user_id = ?", filter.UserID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	if err := query.
		Order("created_at DESC, id DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Patch applies only the given fields in a single update, always refreshing
// updated_at, and returns the updated record.
func (r *GormTaskRepository) Patch(id int64, fields map[string]interface{}) (*models.Task, error) {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now().UTC()

	result := r.db.Model(&models.Task{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Updates with identical values can also report zero rows on some
		// drivers, so confirm absence with a read.
		var exists models.Task
		if err := r.db.Select("id").First(&exists, id).Error; err != nil {
			return nil, err
		}
	}

	return r.FindByID(id)
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id int64) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Statistics aggregates an owner's tasks. A single Find is the snapshot;
// every count is derived from that one result set, so a concurrent mutation
// cannot split the totals.
func (r *GormTaskRepository) Statistics(userID int64, now time.Time) (*TaskStatistics, error) {
	var tasks []models.Task
	if err := r.db.Where("user_id = ?", userID).Find(&tasks).Error; err != nil {
		return nil, err
	}

	stats := &TaskStatistics{
		Total:      int64(len(tasks)),
		ByStatus:   make(map[models.TaskStatus]int64),
		ByPriority: make(map[models.Priority]int64),
	}

	for _, task := range tasks {
		stats.ByStatus[task.Status]++
		stats.ByPriority[task.Priority]++
		if task.DueDate != nil && task.DueDate.Before(now) && task.Status != models.TaskStatusCompleted {
			stats.OverdueCount++
		}
	}

	return stats, nil
}
