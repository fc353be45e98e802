package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var tokens = auth.NewTokenIssuer("test-secret", time.Hour)

func do(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body httperr.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body.Code
}

func bearer(t *testing.T, id auth.Identity) map[string]string {
	t.Helper()
	tok, err := tokens.Issue(id)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + tok}
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/who", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, Identity(c))
	})

	for name, h := range map[string]map[string]string{
		"missing":   nil,
		"no scheme": {"Authorization": "abc"},
		"garbage":   {"Authorization": "Bearer abc.def.ghi"},
		"basic":     {"Authorization": "Basic dXNlcjpwYXNz"},
	} {
		w := do(r, http.MethodGet, "/who", h)
		if w.Code != http.StatusUnauthorized || errorCode(t, w) != httperr.CodeUnauthorized {
			t.Fatalf("%s: status = %d body = %s", name, w.Code, w.Body.String())
		}
	}

	w := do(r, http.MethodGet, "/who", bearer(t, auth.Identity{UserID: 7, BusinessID: 3, Role: "admin"}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var got auth.Identity
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.UserID != 7 || got.BusinessID != 3 || got.Role != "admin" {
		t.Fatalf("identity = %+v", got)
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AuthMiddleware(tokens), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := do(r, http.MethodGet, "/admin", bearer(t, auth.Identity{UserID: 1, BusinessID: 1, Role: "user"}))
	if w.Code != http.StatusForbidden || errorCode(t, w) != httperr.CodeForbidden {
		t.Fatalf("client: status = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/admin", bearer(t, auth.Identity{UserID: 1, BusinessID: 1, Role: "admin"}))
	if w.Code != http.StatusNoContent {
		t.Fatalf("admin: status = %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(logger.RequestIDKey)) })

	w := do(r, http.MethodGet, "/", map[string]string{logger.RequestIDKey: "abc-123"})
	if w.Header().Get(logger.RequestIDKey) != "abc-123" || w.Body.String() != "abc-123" {
		t.Fatalf("supplied id not kept: %q", w.Header().Get(logger.RequestIDKey))
	}

	w = do(r, http.MethodGet, "/", nil)
	if len(w.Header().Get(logger.RequestIDKey)) != 36 {
		t.Fatalf("generated id = %q", w.Header().Get(logger.RequestIDKey))
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.test"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodOptions, "/", map[string]string{"Origin": "https://app.test"})
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "https://app.test" {
		t.Fatalf("preflight: %d %v", w.Code, w.Header())
	}

	w = do(r, http.MethodGet, "/", map[string]string{"Origin": "https://evil.test"})
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unlisted origin allowed")
	}
}

// ======================================================
// RATE LIMIT
// ======================================================

func TestMemoryLimiter_Window(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		if ok, _ := l.Allow(ctx, "k"); ok != want {
			t.Fatalf("hit %d allowed = %v", i, ok)
		}
	}
	if ok, _ := l.Allow(ctx, "other"); !ok {
		t.Fatalf("keys are not independent")
	}

	now = now.Add(time.Minute)
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatalf("window did not reset")
	}
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	r := gin.New()
	r.GET("/slots", AuthMiddleware(tokens), RateLimit(NewMemoryLimiter(1, time.Minute), "slots"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	ana := bearer(t, auth.Identity{UserID: 1, BusinessID: 1, Role: "user"})
	bob := bearer(t, auth.Identity{UserID: 2, BusinessID: 1, Role: "user"})

	if w := do(r, http.MethodGet, "/slots", ana); w.Code != http.StatusOK {
		t.Fatalf("first: %d", w.Code)
	}
	w := do(r, http.MethodGet, "/slots", ana)
	if w.Code != http.StatusTooManyRequests || errorCode(t, w) != httperr.CodeRateLimited {
		t.Fatalf("second: %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/slots", bob); w.Code != http.StatusOK {
		t.Fatalf("other user limited: %d", w.Code)
	}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(brokenLimiter{}, "booking"), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := do(r, http.MethodGet, "/", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
