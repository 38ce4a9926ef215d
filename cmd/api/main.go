package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "taskmanager/internal/adapter/db"
	httpadapter "taskmanager/internal/adapter/http"
	"taskmanager/internal/adapter/http/handlers"
	httpmiddleware "taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/adapter/security"
	"taskmanager/internal/app/service"
	"taskmanager/internal/config"
	"taskmanager/internal/core/domain"
	"taskmanager/pkg/translator"
)

const (
	migrateTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.LoadConfig()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.DbDriver), zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	err = dbadapter.Migrate(ctx, db)
	cancel()
	if err != nil {
		logger.Fatal("failed to apply schema", zap.Error(err))
	}

	tokens, err := security.NewJWTManager(cfg.JwtSecret, cfg.AccessTokenLifetime, cfg.RefreshTokenLifetime)
	if err != nil {
		logger.Fatal("invalid token configuration", zap.Error(err))
	}
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	requests, period, err := httpmiddleware.ParseRate(cfg.ThrottleUserRate)
	if err != nil {
		logger.Fatal("invalid throttle rate", zap.Error(err))
	}

	userRepository := dbadapter.NewUserRepository(db)
	taskRepository := dbadapter.NewTaskRepository(db)

	authService := service.NewAuthService(userRepository, tokens, hasher, domain.PasswordPolicy{MinLength: cfg.PasswordMinLength})
	taskService := service.NewTaskService(taskRepository, userRepository)
	userService := service.NewUserService(userRepository, taskRepository)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Error(err))
	}
	r.Use(gin.Recovery(), httpmiddleware.RequestID(), httpmiddleware.GinZapMiddleware(logger))

	httpadapter.RegisterRoutes(r,
		httpadapter.Handlers{
			Health: handlers.NewHealthHandler(db, dbadapter.NewStatsRepository(db), handlers.HealthInfo{Name: cfg.AppName, Version: cfg.AppVersion}),
			Auth:   handlers.NewAuthHandler(authService),
			Tasks:  handlers.NewTaskHandler(taskService),
			Users:  handlers.NewUserHandler(userService),
		},
		httpadapter.Security{
			Tokens:      tokens,
			AuthService: authService,
			TaskLimiter: httpmiddleware.NewRateLimiter(requests, period),
		},
	)

	server := httpadapter.NewServer(":"+cfg.AppPort, r, cfg.CorsAllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr), zap.String("db_driver", cfg.DbDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
