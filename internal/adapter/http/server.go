package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"taskmanager/internal/adapter/http/middleware"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second
)

// NewServer wraps the router in the CORS handler. No origin is allowed
// when allowedOrigins is empty.
func NewServer(addr string, router *gin.Engine, allowedOrigins []string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      corsHandler(allowedOrigins).Handler(router),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

func corsHandler(allowedOrigins []string) *cors.Cors {
	options := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept-Language", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Retry-After", middleware.RequestIDHeader},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}
	// cors treats an empty origin list as "*".
	if len(allowedOrigins) == 0 {
		options.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(options)
}
