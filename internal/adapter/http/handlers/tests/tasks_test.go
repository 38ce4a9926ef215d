package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/policy"
	"taskmanager/pkg/apierrors"
	"taskmanager/pkg/translator"
)

func sampleTask() domain.Task {
	dueDate := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC)
	return domain.Task{
		ID:          1,
		Title:       "T1",
		Description: "ship endpoint",
		Status:      domain.TaskStatusInProgress,
		Priority:    domain.TaskPriorityHigh,
		DueDate:     &dueDate,
		AssignedTo:  ptr(userU.ID),
		CreatedBy:   managerM.ID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt.Add(time.Hour),
		Comments: []domain.Comment{
			{ID: 7, TaskID: 1, UserID: userX.ID, Body: "first", CreatedAt: createdAt.Add(time.Minute)},
		},
	}
}

func TestTaskHandler_ListTasks_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	expectedFilter := domain.TaskFilter{Priority: ptr(domain.TaskPriorityHigh)}
	serviceMock.On("ListTasks", mock.Anything, expectedFilter).Return([]domain.Task{sampleTask()}, nil).Once()
	router := newTaskRouter(serviceMock, authAs(userU))

	rec := doRequest(router, http.MethodGet, "/api/v1/tasks/?priority=high", &userU, "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, uint64(1), got[0].ID)
	require.Equal(t, "T1", got[0].Title)
	require.Equal(t, "in_progress", got[0].Status)
	require.Equal(t, "high", got[0].Priority)
	require.Equal(t, "2026-02-20", *got[0].DueDate)
	require.Equal(t, userU.ID, *got[0].AssignedTo)
	require.Equal(t, managerM.ID, got[0].CreatedBy)
	require.Equal(t, "2026-02-13T10:20:30Z", got[0].CreatedAt)
	require.Len(t, got[0].Comments, 1)
	require.Equal(t, "first", got[0].Comments[0].Comment)
	require.Equal(t, userX.ID, got[0].Comments[0].User)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_InvalidFilter(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(serviceMock, authAs(userU))

	rec := doRequest(router, http.MethodGet, "/api/v1/tasks/?status=archived", &userU, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "status", decodeError(t, rec).Field)
	serviceMock.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything)
}

func TestTaskHandler_ListTasks_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, domain.TaskFilter{}).Return(nil, errors.New("db is down")).Once()
	router := newTaskRouter(serviceMock, authAs(userU))

	rec := doRequest(router, http.MethodGet, "/api/v1/tasks/", &userU, "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "failed to list tasks", decodeError(t, rec).Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_Unauthenticated(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(serviceMock, authAs())

	rec := doRequest(router, http.MethodGet, "/api/v1/tasks/", nil, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	serviceMock.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything)
}

func TestTaskHandler_ListPublicTasks_IgnoresFilter(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, domain.TaskFilter{}).Return([]domain.Task{sampleTask()}, nil).Once()
	router := newTaskRouter(serviceMock, authAs())

	rec := doRequest(router, http.MethodGet, "/api/v2/tasks/?status=archived", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	expected := domain.CreateTaskInput{
		Title:      "T1",
		Status:     domain.TaskStatusPending,
		Priority:   domain.TaskPriorityMedium,
		AssignedTo: ptr(userU.ID),
	}
	created := domain.Task{ID: 9, Title: "T1", Status: domain.TaskStatusPending, Priority: domain.TaskPriorityMedium, AssignedTo: ptr(userU.ID), CreatedBy: managerM.ID}
	serviceMock.On("CreateTask", mock.Anything, managerM, expected).Return(created, nil).Once()
	router := newTaskRouter(serviceMock, authAs(managerM))

	rec := doRequest(router, http.MethodPost, "/api/v1/tasks/", &managerM, `{"title":"T1","assigned_to":2,"created_by":4}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, uint64(9), got.ID)
	require.Equal(t, managerM.ID, got.CreatedBy)
	require.Equal(t, "pending", got.Status)
	require.Equal(t, "medium", got.Priority)
	require.Nil(t, got.DueDate)
	require.NotNil(t, got.Comments)
	require.Empty(t, got.Comments)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_PlainUserForbiddenBeforeValidation(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(serviceMock, authAs(userU))

	rec := doRequest(router, http.MethodPost, "/api/v1/tasks/", &userU, `{"status":"bogus"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "You do not have permission to perform this action.", decodeError(t, rec).Message)
	serviceMock.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_CreateTask_AssignToAdminRejected(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, managerM, mock.Anything).
		Return(domain.Task{}, domain.NewRecordError(apierrors.MsgTaskAssignedToAdmin, domain.ErrAssigneeIsAdmin)).Once()
	router := newTaskRouter(serviceMock, authAs(managerM))

	rec := doRequest(router, http.MethodPost, "/api/v1/tasks/", &managerM, `{"title":"T1","assigned_to":3}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, domain.NonFieldErrors, got.Field)
	require.Equal(t, "Tasks cannot be assigned to Admin users.", got.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_InvalidPayload(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(serviceMock, authAs(managerM))

	rec := doRequest(router, http.MethodPost, "/api/v1/tasks/", &managerM, `{"title":"T1","priority":"urgent"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "priority", decodeError(t, rec).Field)
	serviceMock.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_GetTask(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(1)).Return(sampleTask(), nil).Once()
	serviceMock.On("GetTask", mock.Anything, uint64(99)).Return(domain.Task{}, domain.ErrTaskNotFound).Once()
	router := newTaskRouter(serviceMock, authAs(userX))

	rec := doRequest(router, http.MethodGet, "/api/v1/tasks/1/", &userX, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/tasks/99/", &userX, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Task not found", decodeError(t, rec).Message)

	rec = doRequest(router, http.MethodGet, "/api/v1/tasks/abc/", &userX, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_GetTask_NotFoundFrench(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(99)).Return(domain.Task{}, domain.ErrTaskNotFound).Once()
	router := newTaskRouter(serviceMock, authAs(userX))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/99/", nil)
	req.Header.Set("Accept-Language", translator.LanguageFr)
	req.Header.Set("Authorization", "Bearer x-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Tâche introuvable", decodeError(t, rec).Message)
}

func TestTaskHandler_UpdateTask_AdminNotAssignedForbidden(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(1)).Return(sampleTask(), nil).Once()
	router := newTaskRouter(serviceMock, authAs(adminA))

	rec := doRequest(router, http.MethodPut, "/api/v1/tasks/1/", &adminA, `{"title":"changed"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	serviceMock.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_PartialUpdate_NonAssigneeForbidden(t *testing.T) {
	for _, actor := range []domain.User{managerM, userX} {
		serviceMock := new(taskServiceMock)
		serviceMock.On("GetTask", mock.Anything, uint64(1)).Return(sampleTask(), nil).Once()
		router := newTaskRouter(serviceMock, authAs(actor))

		rec := doRequest(router, http.MethodPatch, "/api/v1/tasks/1/", &actor, `{"status":"done"}`)

		require.Equal(t, http.StatusForbidden, rec.Code, actor.Username)
		serviceMock.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestTaskHandler_PartialUpdate_Assignee(t *testing.T) {
	task := sampleTask()
	updated := task
	updated.Status = domain.TaskStatusDone

	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(1)).Return(task, nil).Once()
	serviceMock.On("UpdateTask", mock.Anything, userU, task, policy.ActionPartialUpdate, domain.UpdateTaskInput{Status: ptr(domain.TaskStatusDone)}).
		Return(updated, nil).Once()
	router := newTaskRouter(serviceMock, authAs(userU))

	rec := doRequest(router, http.MethodPatch, "/api/v1/tasks/1/", &userU, `{"status":"done"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "done", got.Status)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_PartialUpdate_EmptyBody(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(1)).Return(sampleTask(), nil).Once()
	router := newTaskRouter(serviceMock, authAs(userU))

	rec := doRequest(router, http.MethodPatch, "/api/v1/tasks/1/", &userU, `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, domain.NonFieldErrors, decodeError(t, rec).Field)
}

func TestTaskHandler_UpdateTask_MissingTaskIsNotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(5)).Return(domain.Task{}, domain.ErrTaskNotFound).Once()
	router := newTaskRouter(serviceMock, authAs(userU))

	rec := doRequest(router, http.MethodPut, "/api/v1/tasks/5/", &userU, `not json`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	task := sampleTask()

	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(1)).Return(task, nil).Twice()
	serviceMock.On("DeleteTask", mock.Anything, managerM, task).Return(nil).Once()
	serviceMock.On("DeleteTask", mock.Anything, userU, task).Return(domain.ErrForbidden).Once()
	router := newTaskRouter(serviceMock, authAs(managerM, userU))

	rec := doRequest(router, http.MethodDelete, "/api/v1/tasks/1/", &userU, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodDelete, "/api/v1/tasks/1/", &managerM, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_AddComment(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(1)).Return(sampleTask(), nil).Twice()
	serviceMock.On("AddComment", mock.Anything, userX, uint64(1), "looks good").
		Return(domain.Comment{ID: 8, TaskID: 1, UserID: userX.ID, Body: "looks good", CreatedAt: createdAt}, nil).Once()
	router := newTaskRouter(serviceMock, authAs(userX))

	rec := doRequest(router, http.MethodPost, "/api/v1/tasks/1/comments/", &userX, `{"comment":"looks good"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got dto.CommentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, uint64(8), got.ID)
	require.Equal(t, userX.ID, got.User)
	require.Equal(t, "2026-03-01T09:30:00Z", got.CreatedAt)

	rec = doRequest(router, http.MethodPost, "/api/v1/tasks/1/comments/", &userX, `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "comment", decodeError(t, rec).Field)
	serviceMock.AssertExpectations(t)
}
