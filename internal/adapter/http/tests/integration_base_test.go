package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	dbadapter "taskmanager/internal/adapter/db"
	httpadapter "taskmanager/internal/adapter/http"
	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/adapter/http/handlers"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/adapter/security"
	appservice "taskmanager/internal/app/service"
	"taskmanager/internal/config"
	"taskmanager/internal/core/domain"
	"taskmanager/pkg/apierrors"
	"taskmanager/pkg/translator"
)

const testJWTSecret = "integration-secret"

// IntegrationSuiteBase runs the whole stack against a fresh SQLite file per
// test.
type IntegrationSuiteBase struct {
	suite.Suite

	DB *sqlx.DB
}

func (s *IntegrationSuiteBase) SetupSuite() {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  filepath.Join(projectRoot(s), "pkg", "translator", "translation"),
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})
}

// ResetDatabase opens an empty database that lives until the current test
// ends.
func (s *IntegrationSuiteBase) ResetDatabase() {
	t := s.T()

	db, err := dbadapter.ConnectDB(&config.Config{
		DbDriver:   config.DriverSQLite,
		SqlitePath: filepath.Join(t.TempDir(), "integration.db"),
	})
	s.Require().NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	s.Require().NoError(dbadapter.Migrate(context.Background(), db))
	s.DB = db
}

// NewRouter wires the production routes. rate uses the THROTTLE_USER_RATE
// form.
func (s *IntegrationSuiteBase) NewRouter(rate string) *gin.Engine {
	tokens, err := security.NewJWTManager(testJWTSecret, 5*time.Minute, time.Hour)
	s.Require().NoError(err)

	requests, period, err := middleware.ParseRate(rate)
	s.Require().NoError(err)

	userRepository := dbadapter.NewUserRepository(s.DB)
	taskRepository := dbadapter.NewTaskRepository(s.DB)
	authService := appservice.NewAuthService(
		userRepository,
		tokens,
		security.NewBcryptHasher(bcrypt.MinCost),
		domain.PasswordPolicy{MinLength: domain.DefaultPasswordMinLength},
	)

	router := gin.New()
	httpadapter.RegisterRoutes(router,
		httpadapter.Handlers{
			Health: handlers.NewHealthHandler(s.DB, dbadapter.NewStatsRepository(s.DB), handlers.HealthInfo{Name: "taskmanager", Version: "test"}),
			Auth:   handlers.NewAuthHandler(authService),
			Tasks:  handlers.NewTaskHandler(appservice.NewTaskService(taskRepository, userRepository)),
			Users:  handlers.NewUserHandler(appservice.NewUserService(userRepository, taskRepository)),
		},
		httpadapter.Security{
			Tokens:      tokens,
			AuthService: authService,
			TaskLimiter: middleware.NewRateLimiter(requests, period),
		},
	)
	return router
}

type session struct {
	User    dto.UserItem
	Access  string
	Refresh string
}

func (s *IntegrationSuiteBase) Signup(router *gin.Engine, username string, role domain.Role) session {
	body := fmt.Sprintf(`{"username":%q,"password":"pw-%s-2026","role":%q}`, username, username, role)
	rec := s.Do(router, http.MethodPost, "/api/v1/signup/", "", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var got dto.SignupResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	return session{User: got.User, Access: got.Access, Refresh: got.Refresh}
}

func (s *IntegrationSuiteBase) Do(router *gin.Engine, method, target, access, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func (s *IntegrationSuiteBase) DecodeError(rec *httptest.ResponseRecorder) apierrors.Err {
	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	return got.ErrDetails
}

func projectRoot(s *IntegrationSuiteBase) string {
	_, thisFile, _, ok := runtime.Caller(0)
	s.Require().True(ok)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "..", ".."))
}
