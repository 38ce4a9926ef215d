package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppName        string
	AppVersion     string
	AppPort        string
	DbDriver       string
	DbHost         string
	DbPort         string
	DbUser         string
	DbPassword     string
	DbName         string
	DbParams       string
	SqlitePath     string
	TrustedProxies []string

	// CorsAllowedOrigins is empty when cross-origin requests are not allowed.
	CorsAllowedOrigins []string

	TranslationFolder string

	JwtSecret            string
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration
	BcryptCost           int
	PasswordMinLength    int

	// ThrottleUserRate uses the "<requests>/<period>" form, e.g. "1000/day".
	ThrottleUserRate string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppName:              getEnv("APP_NAME", "taskmanager"),
		AppVersion:           getEnv("APP_VERSION", "dev"),
		AppPort:              getEnv("APP_PORT", "8080"),
		DbDriver:             getEnv("DB_DRIVER", DriverMySQL),
		DbHost:               getEnv("MYSQL_HOST", "db"),
		DbPort:               getEnv("MYSQL_PORT", "3306"),
		DbUser:               getEnv("MYSQL_USER", "taskmanager"),
		DbPassword:           getEnv("MYSQL_PASSWORD", "taskmanager"),
		DbName:               getEnv("MYSQL_DATABASE", "taskmanager"),
		DbParams:             getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		SqlitePath:           getEnv("SQLITE_PATH", "taskmanager.db"),
		TrustedProxies:       parseList(os.Getenv("TRUSTED_PROXIES")),
		CorsAllowedOrigins:   parseList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		TranslationFolder:    getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
		JwtSecret:            getEnv("JWT_SECRET", ""),
		AccessTokenLifetime:  getDuration("ACCESS_TOKEN_LIFETIME", 5*time.Minute),
		RefreshTokenLifetime: getDuration("REFRESH_TOKEN_LIFETIME", 24*time.Hour),
		BcryptCost:           getInt("BCRYPT_COST", 0),
		PasswordMinLength:    getInt("PASSWORD_MIN_LENGTH", 8),
		ThrottleUserRate:     getEnv("THROTTLE_USER_RATE", "1000/day"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		zap.L().Warn("invalid duration, using default", zap.String("key", key), zap.String("value", value), zap.Duration("default", fallback))
		return fallback
	}
	return parsed
}

func getInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid integer, using default", zap.String("key", key), zap.String("value", value), zap.Int("default", fallback))
		return fallback
	}
	return parsed
}

// parseList splits a comma separated variable and drops blank entries.
func parseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil
	}

	return items
}
