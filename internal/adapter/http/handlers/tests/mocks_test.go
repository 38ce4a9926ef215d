package tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/adapter/http/handlers"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/policy"
	"taskmanager/pkg/apierrors"
	"taskmanager/pkg/translator"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, filter)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

// Authorize applies the real policy so handler tests cover the 403 paths.
func (m *taskServiceMock) Authorize(actor domain.User, action policy.Action, task *domain.Task) error {
	if !policy.CanPerform(actor, action, task) {
		return domain.ErrForbidden
	}
	return nil
}

func (m *taskServiceMock) CreateTask(ctx context.Context, actor domain.User, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, actor, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, actor domain.User, task domain.Task, action policy.Action, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, actor, task, action, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, actor domain.User, task domain.Task) error {
	args := m.Called(ctx, actor, task)
	return args.Error(0)
}

func (m *taskServiceMock) AddComment(ctx context.Context, actor domain.User, taskID uint64, body string) (domain.Comment, error) {
	args := m.Called(ctx, actor, taskID, body)
	return args.Get(0).(domain.Comment), args.Error(1)
}

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Signup(ctx context.Context, input domain.SignupInput) (domain.User, domain.TokenPair, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.User), args.Get(1).(domain.TokenPair), args.Error(2)
}

func (m *authServiceMock) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(domain.TokenPair), args.Error(1)
}

func (m *authServiceMock) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *authServiceMock) ChangePassword(ctx context.Context, user domain.User, input domain.ChangePasswordInput) error {
	args := m.Called(ctx, user, input)
	return args.Error(0)
}

func (m *authServiceMock) Authenticate(ctx context.Context, accessToken string) (domain.User, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(domain.User), args.Error(1)
}

type userServiceMock struct {
	mock.Mock
}

func (m *userServiceMock) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)

	var users []domain.User
	if value := args.Get(0); value != nil {
		users = value.([]domain.User)
	}
	return users, args.Error(1)
}

func (m *userServiceMock) GetUser(ctx context.Context, id uint64) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

var (
	managerM = domain.User{ID: 1, Username: "m", Role: domain.RoleManager}
	userU    = domain.User{ID: 2, Username: "u", Role: domain.RoleUser}
	adminA   = domain.User{ID: 3, Username: "a", Role: domain.RoleAdmin}
	userX    = domain.User{ID: 4, Username: "x", Role: domain.RoleUser}
)

func ptr[T any](v T) *T {
	return &v
}

// authAs returns an auth mock that resolves the bearer token "<username>-token"
// to each of the given users.
func authAs(users ...domain.User) *authServiceMock {
	authMock := new(authServiceMock)
	for _, user := range users {
		authMock.On("Authenticate", mock.Anything, user.Username+"-token").Return(user, nil).Maybe()
	}
	return authMock
}

func newTaskRouter(taskService *taskServiceMock, authMock *authServiceMock) *gin.Engine {
	handler := handlers.NewTaskHandler(taskService)

	router := gin.New()
	router.Use(middleware.LanguageMiddleware())
	tasks := router.Group("/api/v1/tasks", middleware.RequireAuth(authMock))
	tasks.GET("/", handler.ListTasks)
	tasks.POST("/", handler.CreateTask)
	tasks.GET("/:id/", handler.GetTask)
	tasks.PUT("/:id/", handler.UpdateTask)
	tasks.PATCH("/:id/", handler.PartialUpdateTask)
	tasks.DELETE("/:id/", handler.DeleteTask)
	tasks.POST("/:id/comments/", handler.AddComment)
	router.GET("/api/v2/tasks/", handler.ListPublicTasks)
	return router
}

func doRequest(router *gin.Engine, method, target string, actor *domain.User, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+actor.Username+"-token")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Err {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, rec.Code, got.ErrDetails.Code)
	return got.ErrDetails
}
