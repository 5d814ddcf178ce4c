package models

import "time"

// Comment is a user-authored note on a task. Comments live in an injected
// keyed store rather than the relational schema; see repository.CommentRepository.
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
