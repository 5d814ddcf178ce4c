package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/mnakayama/task-manager-api/internal/dto"
	"github.com/mnakayama/task-manager-api/internal/models"
	"github.com/mnakayama/task-manager-api/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestTaskHandler_FullLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice@example.com", "alice")

	// Create
	w := env.doJSON(t, http.MethodPost, "/api/tasks", token, map[string]string{"title": "T"})
	require.Equal(t, http.StatusCreated, w.Code)

	var task dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	require.Greater(t, task.ID, int64(0))
	require.Equal(t, models.TaskStatusPending, task.Status)

	// Complete
	w = env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", task.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	require.Equal(t, models.TaskStatusCompleted, task.Status)

	// Delete
	w = env.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Gone
	w = env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_ListStatusFilter(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice@example.com", "alice")

	var completed dto.TaskDTO
	for i := 0; i < 3; i++ {
		w := env.doJSON(t, http.MethodPost, "/api/tasks", token, map[string]string{"title": "T"})
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
	}
	w := env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", completed.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(t, http.MethodGet, "/api/tasks?status=pending", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		require.Equal(t, models.TaskStatusPending, task.Status)
	}
}

func TestTaskHandler_ListInvalidStatus(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice@example.com", "alice")

	w := env.doJSON(t, http.MethodGet, "/api/tasks?status=bogus", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_PartialUpdate(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice@example.com", "alice")

	w := env.doJSON(t, http.MethodPost, "/api/tasks", token, map[string]interface{}{
		"title":       "T",
		"description": "keep me",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var task dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	w = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), token, map[string]string{
		"priority": "urgent",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, models.PriorityUrgent, updated.Priority)
	require.Equal(t, "T", updated.Title)
	require.NotNil(t, updated.Description)
	require.Equal(t, "keep me", *updated.Description)
}

func TestTaskHandler_OwnershipEnforced(t *testing.T) {
	env := setupTestEnv(t)
	aliceToken := env.registerAndLogin(t, "alice@example.com", "alice")
	bobToken := env.registerAndLogin(t, "bob@example.com", "bob")

	w := env.doJSON(t, http.MethodPost, "/api/tasks", aliceToken, map[string]string{"title": "private"})
	require.Equal(t, http.StatusCreated, w.Code)

	var task dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	path := fmt.Sprintf("/api/tasks/%d", task.ID)
	for _, probe := range []struct {
		method string
		url    string
	}{
		{http.MethodGet, path},
		{http.MethodPut, path},
		{http.MethodDelete, path},
		{http.MethodPost, path + "/complete"},
	} {
		w := env.doJSON(t, probe.method, probe.url, bobToken, map[string]string{})
		require.Equal(t, http.StatusForbidden, w.Code, "%s %s", probe.method, probe.url)
	}

	// Other users' tasks never appear in a listing.
	w = env.doJSON(t, http.MethodGet, "/api/tasks", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Empty(t, tasks)
}

func TestTaskHandler_AdminAccess(t *testing.T) {
	env := setupTestEnv(t)
	aliceToken := env.registerAndLogin(t, "alice@example.com", "alice")
	adminToken := env.registerAndLogin(t, "admin@example.com", "admin")

	require.NoError(t, env.db.Model(&models.User{}).
		Where("email = ?", "admin@example.com").
		UpdateColumn("is_admin", true).Error)

	w := env.doJSON(t, http.MethodPost, "/api/tasks", aliceToken, map[string]string{"title": "T"})
	require.Equal(t, http.StatusCreated, w.Code)

	var task dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	w = env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", task.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTaskHandler_Assign(t *testing.T) {
	env := setupTestEnv(t)
	aliceToken := env.registerAndLogin(t, "alice@example.com", "alice")
	env.registerAndLogin(t, "bob@example.com", "bob")

	w := env.doJSON(t, http.MethodPost, "/api/tasks", aliceToken, map[string]string{"title": "T"})
	require.Equal(t, http.StatusCreated, w.Code)

	var task dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	w = env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/assign", task.ID), aliceToken, map[string]int64{
		"assigned_to": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var assigned dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assigned))
	require.NotNil(t, assigned.AssignedTo)
	require.Equal(t, int64(2), *assigned.AssignedTo)

	// Assigning to a missing user is a 404.
	w = env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/assign", task.ID), aliceToken, map[string]int64{
		"assigned_to": 999,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_Statistics(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice@example.com", "alice")

	for i := 0; i < 2; i++ {
		w := env.doJSON(t, http.MethodPost, "/api/tasks", token, map[string]string{"title": "T"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.doJSON(t, http.MethodGet, "/api/tasks/statistics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats repository.TaskStatistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, int64(2), stats.Total)
	require.Equal(t, int64(2), stats.ByStatus[models.TaskStatusPending])
	require.Equal(t, int64(0), stats.OverdueCount)
}
