package services

import (
	"testing"

	"github.com/mnakayama/task-manager-api/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateAndList(t *testing.T) {
	svc := NewCommentService(repository.NewCommentRepository())

	first, err := svc.CreateComment(10, 1, "first")
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)

	second, err := svc.CreateComment(10, 2, "second")
	require.NoError(t, err)
	require.Equal(t, int64(2), second.ID)

	_, err = svc.CreateComment(11, 1, "other task")
	require.NoError(t, err)

	comments, err := svc.ListComments(10)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "first", comments[0].Text)
	require.Equal(t, "second", comments[1].Text)
}

func TestCommentService_EmptyTextRejected(t *testing.T) {
	svc := NewCommentService(repository.NewCommentRepository())

	_, err := svc.CreateComment(10, 1, "")
	require.ErrorIs(t, err, ErrCommentTextRequired)
}

func TestCommentService_Delete(t *testing.T) {
	svc := NewCommentService(repository.NewCommentRepository())

	comment, err := svc.CreateComment(10, 1, "bye")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComment(comment.ID))
	require.ErrorIs(t, svc.DeleteComment(comment.ID), ErrCommentNotFound)

	comments, err := svc.ListComments(10)
	require.NoError(t, err)
	require.Empty(t, comments)
}
