package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIdempotencyValidator_NoHeader_NoLookupCalled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	lookupCalled := false
	lookup := func(_ context.Context, _ string, _ string, _ string, _ time.Time) (bool, error) {
		lookupCalled = true
		return false, nil
	}
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/sync", func(c *gin.Context) {
		// header absent ⇒ no key stashed
		if _, ok := GetIdempotencyKey(c); ok {
			t.Fatalf("key should not be present when header missing")
		}
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if lookupCalled {
		t.Fatalf("lookup should not be called when header missing")
	}
}

func TestIdempotencyValidator_InvalidKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{MaxLen: 5}, nil)) // very small
	r.POST("/sync", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set(HeaderIdempotencyKey, "abcdef") // 6 > 5
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["code"] != "bad_idempotency_key" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestIdempotencyValidator_LookupKeysOnBodyUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// The replay lookup must see the same user identity the sync handler
	// stores its records under: the JSON body's user_id.
	var sawUser string
	lookup := func(_ context.Context, userID, scope, key string, now time.Time) (bool, error) {
		sawUser = userID
		if scope != "/sync" || key != "k-1" || now.IsZero() {
			t.Fatalf("lookup args not populated: scope=%q key=%q now=%v", scope, key, now)
		}
		return true, nil
	}
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/sync", func(c *gin.Context) {
		if !IsReplay(c) {
			t.Fatalf("expected IsReplay=true on hit")
		}
		// The body must survive the peek for normal binding.
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID != "u-7" {
			t.Fatalf("body not restored after peek: err=%v user=%q", err, req.UserID)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(`{"user_id":"u-7"}`))
	req.Header.Set(HeaderIdempotencyKey, "k-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if sawUser != "u-7" {
		t.Fatalf("lookup keyed on %q, want body user_id u-7", sawUser)
	}
}

func TestUserIDFromCtx_HeaderAndAnonymousFallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// No body, no header ⇒ anonymous.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/sync", nil)
	if got := userIDFromCtx(c); got != "anonymous" {
		t.Fatalf("expected anonymous fallback, got %q", got)
	}

	// Header wins when the body carries no user_id.
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(`{}`))
	c2.Request.Header.Set("X-User-ID", "hdr-user")
	if got := userIDFromCtx(c2); got != "hdr-user" {
		t.Fatalf("expected header identity, got %q", got)
	}

	// Body user_id wins over the header.
	c3, _ := gin.CreateTestContext(httptest.NewRecorder())
	c3.Request = httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(`{"user_id":"body-user"}`))
	c3.Request.Header.Set("X-User-ID", "hdr-user")
	if got := userIDFromCtx(c3); got != "body-user" {
		t.Fatalf("expected body identity, got %q", got)
	}
}
