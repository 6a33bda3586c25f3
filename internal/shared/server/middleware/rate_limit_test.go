package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitGenerateStricterThanDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if c.Request.Method == http.MethodPost && c.FullPath() == "/generate" {
			return "GENERATE"
		}
		return "DEFAULT"
	}

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     groupFor,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT":  {Rate: 5, Burst: 10},
			"GENERATE": {Rate: 1, Burst: 2},
		},
	}))

	r.GET("/templates", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/generate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/templates", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("default request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("generate request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("generate request 3 expected 429, got %d", resp.Code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			return "DEFAULT"
		},
		Limiter: limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT": {Rate: 1, Burst: 1},
		},
	}))
	r.POST("/generate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req1 := httptest.NewRequest(http.MethodPost, "/generate", nil)
	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, req1)
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/generate", nil)
	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if resp2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var payload map[string]any
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["code"] != "rate_limited" {
		t.Fatalf("expected code=rate_limited")
	}
	if payload["success"] != false {
		t.Fatalf("expected success=false")
	}
	if _, ok := payload["retry_after_ms"]; !ok {
		t.Fatalf("expected retry_after_ms in response")
	}
}

func TestRateLimitKeysOnClientIP(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("10.0.0.1|GENERATE", rule); !ok {
		t.Fatalf("first request from 10.0.0.1 should pass")
	}
	if ok, _ := limiter.Allow("10.0.0.2|GENERATE", rule); !ok {
		t.Fatalf("first request from 10.0.0.2 should pass")
	}
	ok, retry := limiter.Allow("10.0.0.1|GENERATE", rule)
	if ok {
		t.Fatalf("second request from 10.0.0.1 should be limited")
	}
	if retry != time.Second {
		t.Fatalf("expected retry after 1s, got %v", retry)
	}

	now = now.Add(time.Second)
	if ok, _ := limiter.Allow("10.0.0.1|GENERATE", rule); !ok {
		t.Fatalf("bucket should refill after 1s")
	}
}

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 2}

	for i := 0; i < 100; i++ {
		ok, _ := limiter.Allow("10.0.0."+strconv.Itoa(i)+"|GENERATE", rule)
		if !ok {
			t.Fatalf("first request for client %d should pass", i)
		}
	}
	if len(limiter.buckets) != 100 {
		t.Fatalf("expected 100 buckets, got %d", len(limiter.buckets))
	}

	slow := RateLimitRule{Rate: 1.0 / 600, Burst: 2}
	now = now.Add(bucketSweepInterval)
	limiter.Allow("10.0.0.200|GENERATE", slow)
	limiter.Allow("10.0.0.200|GENERATE", slow)
	if ok, _ := limiter.Allow("10.0.0.200|GENERATE", slow); ok {
		t.Fatal("drained client should be limited")
	}

	now = now.Add(bucketSweepInterval)
	limiter.Allow("10.0.0.201|GENERATE", rule)

	if len(limiter.buckets) != 2 {
		t.Fatalf("expected the draining and the new bucket, got %d", len(limiter.buckets))
	}
	if ok, _ := limiter.Allow("10.0.0.200|GENERATE", slow); ok {
		t.Fatal("sweep must not reset a bucket that has not refilled")
	}
}
