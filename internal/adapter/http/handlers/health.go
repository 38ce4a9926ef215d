package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

const (
	StatusOk        = "ok"
	StatusDown      = "down"
	StatusMissing   = "missing"
	healthDBTimeout = 2 * time.Second
)

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Database       string `json:"database"`
	DatabaseDriver string `json:"database_driver"`
	// Schema is "missing" when the tables have not been migrated.
	Schema string `json:"schema"`
}

type HealthRecords struct {
	Users         int64            `json:"users"`
	Tasks         int64            `json:"tasks"`
	Comments      int64            `json:"comments"`
	TasksByStatus map[string]int64 `json:"tasks_by_status"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	UptimeSeconds     int64          `json:"uptime_seconds"`
	Language          string         `json:"language"`
	Status            HealthServices `json:"status"`
	Records           *HealthRecords `json:"records,omitempty"`
}

type HealthInfo struct {
	Name    string
	Version string
}

type HealthHandler struct {
	db        *sqlx.DB
	stats     ports.StatsRepository
	info      HealthInfo
	startedAt time.Time
}

func NewHealthHandler(db *sqlx.DB, stats ports.StatsRepository, info HealthInfo) *HealthHandler {
	return &HealthHandler{db: db, stats: stats, info: info, startedAt: time.Now()}
}

// healthState is what one inspection of the store found.
type healthState struct {
	services HealthServices
	stats    *domain.StoreStats
}

func (s healthState) ready() bool {
	return s.services.Database == StatusOk && s.services.Schema == StatusOk
}

// CheckHealth answers 503 until the database is reachable and migrated.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	state := h.inspect(c.Request.Context())

	statusCode, message := http.StatusOK, StatusOk
	if !state.ready() {
		statusCode, message = http.StatusServiceUnavailable, StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           h.info.Name,
		AppVersion:        h.info.Version,
		CurrentSystemTime: time.Now().UTC().Format(time.RFC3339),
		Message:           message,
	})
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	state := h.inspect(c.Request.Context())

	report := HealthAdvanced{
		AppName:           h.info.Name,
		AppVersion:        h.info.Version,
		CurrentSystemTime: time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds:     int64(time.Since(h.startedAt).Seconds()),
		Language:          middleware.GetLang(c),
		Status:            state.services,
	}
	if state.stats != nil {
		report.Records = toHealthRecords(*state.stats)
	}

	statusCode := http.StatusOK
	if !state.ready() {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, report)
}

func (h *HealthHandler) inspect(ctx context.Context) healthState {
	state := healthState{services: HealthServices{
		Database: StatusDown,
		Schema:   StatusDown,
	}}
	if h.db == nil {
		return state
	}
	state.services.DatabaseDriver = h.db.DriverName()

	// Avoid hanging health checks if the database stalls.
	ctx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		zap.L().Warn("health: database unreachable", zap.Error(err))
		return state
	}
	state.services.Database = StatusOk

	stats, err := h.stats.Stats(ctx)
	if err != nil {
		zap.L().Warn("health: schema check failed", zap.Error(err))
		state.services.Schema = StatusMissing
		return state
	}
	state.services.Schema = StatusOk
	state.stats = &stats
	return state
}

func toHealthRecords(stats domain.StoreStats) *HealthRecords {
	byStatus := make(map[string]int64, len(stats.TasksByStatus))
	for status, total := range stats.TasksByStatus {
		byStatus[string(status)] = total
	}
	return &HealthRecords{
		Users:         stats.Users,
		Tasks:         stats.Tasks,
		Comments:      stats.Comments,
		TasksByStatus: byStatus,
	}
}
