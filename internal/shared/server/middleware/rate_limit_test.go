package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(limiter *RateLimiter, rules map[string]RateLimitRule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(userIDKey, "guest:test-guest")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: GroupByRoute,
		Limiter:  limiter,
		Rules:    rules,
	}))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/api/v1/workspace", ok)
	r.POST("/api/v1/workspace/offers", ok)
	r.POST("/api/v1/rank", ok)
	return r
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRateLimitGroupsAreIndependent(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	r := limitedRouter(limiter, DefaultRules(1, 2))

	for i := 0; i < 4; i++ {
		if resp := do(r, http.MethodGet, "/api/v1/workspace"); resp.Code != http.StatusOK {
			t.Fatalf("read request %d expected 200, got %d", i+1, resp.Code)
		}
	}
	for i := 0; i < 2; i++ {
		if resp := do(r, http.MethodPost, "/api/v1/workspace/offers"); resp.Code != http.StatusOK {
			t.Fatalf("write request %d expected 200, got %d", i+1, resp.Code)
		}
	}
	if resp := do(r, http.MethodPost, "/api/v1/workspace/offers"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("write request 3 expected 429, got %d", resp.Code)
	}
	if resp := do(r, http.MethodPost, "/api/v1/rank"); resp.Code != http.StatusOK {
		t.Fatalf("rank request expected 200, got %d", resp.Code)
	}
	if resp := do(r, http.MethodPost, "/api/v1/rank"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second rank request expected 429, got %d", resp.Code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	r := limitedRouter(limiter, map[string]RateLimitRule{GroupRead: {Rate: 1, Burst: 1}})

	if resp := do(r, http.MethodGet, "/api/v1/workspace"); resp.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp.Code)
	}
	resp := do(r, http.MethodGet, "/api/v1/workspace")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp.Header().Get("Retry-After"))
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected code rate_limited, got %q", payload.Error.Code)
	}
	if payload.Error.Details["retryAfterMs"] != float64(1000) {
		t.Fatalf("expected retryAfterMs 1000, got %v", payload.Error.Details["retryAfterMs"])
	}

	// unlisted groups pass through
	if resp := do(r, http.MethodPost, "/api/v1/workspace/offers"); resp.Code != http.StatusOK {
		t.Fatalf("expected unlimited write, got %d", resp.Code)
	}
}

func TestRateLimiterRefillAndSweep(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 2, Burst: 1}

	if ok, _ := limiter.Allow("a", rule); !ok {
		t.Fatalf("expected first token")
	}
	ok, wait := limiter.Allow("a", rule)
	if ok || wait != 500*time.Millisecond {
		t.Fatalf("expected 500ms wait, got ok=%v wait=%v", ok, wait)
	}
	now = now.Add(500 * time.Millisecond)
	if ok, _ := limiter.Allow("a", rule); !ok {
		t.Fatalf("expected refilled token")
	}

	now = now.Add(bucketIdleTTL + time.Second)
	limiter.Allow("b", rule)
	if got := limiter.Len(); got != 1 {
		t.Fatalf("expected idle bucket swept, have %d", got)
	}
}
