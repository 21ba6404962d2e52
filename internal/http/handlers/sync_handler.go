// Sync HTTP handlers.
//
// This file exposes the on-demand synchronization endpoint:
//   - POST /sync   (pull the caller's booking records and refresh chats)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. When the client supplies an
// Idempotency-Key, the completed response body is persisted so retries replay
// the stored result instead of triggering another provider round-trip.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/http/middleware"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
	"github.com/mkrasov/salon-chat-sync/internal/services"
)

//
// Service contracts (context-aware)
//

// SyncService defines the on-demand synchronization operation consumed by the
// HTTP layer.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SyncService interface {
	// SyncForUser pulls the booking records visible to userID from the
	// provider and reconciles them into local records and chats.
	SyncForUser(ctx context.Context, userID string) (services.SyncStats, error)
}

// AuthService defines the provider login operations consumed by the HTTP layer.
type AuthService interface {
	// LoginByCode exchanges a phone + one-time code for a linked local user.
	LoginByCode(ctx context.Context, phone, code string) (*domain.User, error)
	// LoginByPassword exchanges provider credentials for a linked local user.
	LoginByPassword(ctx context.Context, login, password string) (*domain.User, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for synchronization and authentication.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic. DB and IdemTTL back the idempotent-replay
// storage for unsafe endpoints.
type Handlers struct {
	syncSvc SyncService
	authSvc AuthService
	db      *gorm.DB
	idemTTL time.Duration
}

// New constructs a Handlers instance bound to the given services.
func New(syncSvc SyncService, authSvc AuthService, db *gorm.DB, idemTTL time.Duration) *Handlers {
	return &Handlers{syncSvc: syncSvc, authSvc: authSvc, db: db, idemTTL: idemTTL}
}

//
// DTOs
//

// SyncRequest is the JSON payload for the on-demand sync endpoint.
type SyncRequest struct {
	// UserID identifies the local user whose records should be pulled.
	UserID string `json:"user_id" binding:"required" example:"7f0c2a4e-1d9b-4c1f-8a77-3f4f0b6c2d10"`
}

// SyncResponse is the success envelope of the on-demand sync endpoint.
type SyncResponse struct {
	Success bool               `json:"success" example:"true"`
	Message string             `json:"message" example:"synchronization complete"`
	Stats   services.SyncStats `json:"stats"`
}

//
// Handlers
//

// Sync godoc
// @ID          syncUser
// @Summary     Synchronize a user's booking records
// @Description Pulls the user's booking records from the provider, reconciles them into chats, and returns pass counters.
// @Tags        Sync
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Safe-retry key"  example(sync-2026-08-26-001)
// @Param       body             body    handlers.SyncRequest  true  "Sync payload"
//
// @Success     200  {object}  handlers.SyncResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User unknown or not linked"
// @Failure     502  {object}  handlers.ErrorResponse  "Provider unavailable"
// @Router      /sync [post]
func (h *Handlers) Sync(c *gin.Context) {
	ctx := c.Request.Context()

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	uid := strings.TrimSpace(req.UserID)
	if uid == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id is required")
		return
	}

	// Replay a previously completed request when the same key comes back.
	key, hasKey := middleware.GetIdempotencyKey(c)
	if hasKey && h.db != nil {
		if rec, err := repo.GetIdempotency(ctx, h.db, uid, c.FullPath(), key, time.Now().UTC()); err == nil && rec != nil {
			c.Header("Idempotency-Replayed", "true")
			c.Data(rec.Status, "application/json", []byte(rec.Result))
			c.Abort()
			return
		}
	}

	stats, err := h.syncSvc.SyncForUser(ctx, uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		case errors.Is(err, services.ErrIdentityNotLinked):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user is not linked to a provider account")
		case errors.Is(err, services.ErrProviderUnavailable):
			// The failing party is the upstream booking provider, not this
			// service, so it maps to 502 rather than 500.
			fail(c, http.StatusBadGateway, ErrCodeSyncFailed, "booking provider unavailable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSyncFailed, err.Error())
		}
		return
	}

	resp := SyncResponse{
		Success: true,
		Message: "synchronization complete",
		Stats:   stats,
	}

	if hasKey && h.db != nil {
		if body, mErr := json.Marshal(resp); mErr == nil {
			// Best effort: a concurrent retry may have stored the row first.
			_, _ = repo.CreateIdempotency(ctx, h.db, uid, c.FullPath(), key, string(body), http.StatusOK, h.idemTTL)
		}
	}

	ok(c, http.StatusOK, resp)
}
