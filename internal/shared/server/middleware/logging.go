package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"offer-ranker/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log.
const (
	DimensionIDKey = "dimensionId"
	OfferIDKey     = "offerId"
	OfferCountKey  = "offerCount"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"is_guest":    IsGuest(c),
			"client_ip":   c.ClientIP(),
		}
		for _, key := range []string{DimensionIDKey, OfferIDKey, OfferCountKey} {
			if v, ok := c.Get(key); ok {
				fields[snakeKey(key)] = v
			}
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			telemetry.Warn("request.complete", fields)
			return
		}
		telemetry.Info("request.complete", fields)
	}
}

func snakeKey(key string) string {
	switch key {
	case DimensionIDKey:
		return "dimension_id"
	case OfferIDKey:
		return "offer_id"
	case OfferCountKey:
		return "offer_count"
	}
	return key
}
