package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-companion-service/internal/api/dto"
	"task-companion-service/internal/domain"
)

func TestListTasks(t *testing.T) {
	repo := newFakeTaskRepo(
		&domain.Task{ID: "t1", Title: "Buy milk", Status: domain.StatusPending, Priority: domain.PriorityMedium},
		&domain.Task{ID: "t2", Title: "Old chore", Status: domain.StatusCompleted, Priority: domain.PriorityLow},
	)
	h := &TaskHandler{Log: discardLogger(), Repo: repo}

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?status=pending", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListTasksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "t1", res.Tasks[0].ID)
}

func TestListTasksRejectsBadStatus(t *testing.T) {
	h := &TaskHandler{Log: discardLogger(), Repo: newFakeTaskRepo()}

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?status=bogus", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTask(t *testing.T) {
	repo := newFakeTaskRepo()
	h := &TaskHandler{Log: discardLogger(), Repo: repo}

	body := strings.NewReader(`{"user_id": "u1", "title": "Pick up prescription", "priority": "high", "location": "CVS Pharmacy"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", body)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var res dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, strings.HasPrefix(res.ID, "task_"))
	assert.Equal(t, "Pick up prescription", res.Title)
	assert.Equal(t, "high", res.Priority)
	assert.Equal(t, "other", res.CategoryType)
	assert.Equal(t, "pending", res.Status)
	assert.Len(t, repo.tasks, 1)
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	h := &TaskHandler{Log: discardLogger(), Repo: newFakeTaskRepo()}

	body := strings.NewReader(`{"user_id": "u1", "title": "  "}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", body)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTaskNotFound(t *testing.T) {
	h := &TaskHandler{Log: discardLogger(), Repo: newFakeTaskRepo()}

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTask(t *testing.T) {
	repo := newFakeTaskRepo(
		&domain.Task{ID: "t1", Title: "Buy milk", Status: domain.StatusPending},
	)
	h := &TaskHandler{Log: discardLogger(), Repo: repo}

	body := strings.NewReader(`{"status": "in_progress"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/tasks/t1", body)
	req.SetPathValue("id", "t1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "in_progress", res.Status)
}

func TestUpdateTaskRejectsUnknownFields(t *testing.T) {
	h := &TaskHandler{Log: discardLogger(), Repo: newFakeTaskRepo()}

	body := strings.NewReader(`{"nope": true}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/tasks/t1", body)
	req.SetPathValue("id", "t1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteTask(t *testing.T) {
	repo := newFakeTaskRepo(
		&domain.Task{ID: "t1", Title: "Buy milk", Status: domain.StatusPending},
	)
	h := &TaskHandler{Log: discardLogger(), Repo: repo}

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/t1/complete", nil)
	req.SetPathValue("id", "t1")
	rec := httptest.NewRecorder()
	h.Complete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "completed", res.Status)
	assert.NotNil(t, res.CompletedAt)
}

func TestDeleteTask(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{ID: "t1"})
	h := &TaskHandler{Log: discardLogger(), Repo: repo}

	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/t1", nil)
	req.SetPathValue("id", "t1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.tasks)
}
