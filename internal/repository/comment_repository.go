package repository

import (
	"sort"
	"sync"

	"github.com/mnakayama/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// MemoryCommentRepository is an in-memory CommentRepository. It is injected
// behind the interface so a persistent store can replace it without touching
// call sites.
type MemoryCommentRepository struct {
	mu       sync.Mutex
	comments map[int64]models.Comment
	sequence int64
}

// NewCommentRepository creates an in-memory CommentRepository
func NewCommentRepository() CommentRepository {
	return &MemoryCommentRepository{
		comments: make(map[int64]models.Comment),
	}
}

// Create stores a comment, allocating its ID from the store's own sequence.
func (r *MemoryCommentRepository) Create(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sequence++
	comment.ID = r.sequence
	r.comments[comment.ID] = *comment
	return nil
}

// ListByTask returns all comments on a task in creation order.
func (r *MemoryCommentRepository) ListByTask(taskID int64) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.TaskID == taskID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes a comment
func (r *MemoryCommentRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.comments, id)
	return nil
}
