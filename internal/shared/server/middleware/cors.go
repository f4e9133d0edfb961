package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ats-backend/internal/shared/telemetry"
)

// CORS allows the configured browser origins. An empty list or "*" allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        10 * time.Minute,
	}

	var origins []string
	for _, o := range allowedOrigins {
		trimmed := strings.TrimRight(strings.TrimSpace(o), "/")
		switch {
		case trimmed == "":
		case trimmed == "*":
			return cors.New(withAllOrigins(cfg))
		case strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://"):
			origins = append(origins, trimmed)
		default:
			telemetry.Warn("cors.origin_ignored", map[string]any{"origin": o})
		}
	}
	if len(origins) == 0 {
		return cors.New(withAllOrigins(cfg))
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}

func withAllOrigins(cfg cors.Config) cors.Config {
	cfg.AllowAllOrigins = true
	cfg.AllowOrigins = nil
	return cfg
}
