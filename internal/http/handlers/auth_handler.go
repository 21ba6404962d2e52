// Auth HTTP handlers.
//
// This file exposes the provider login endpoints:
//   - POST /auth/code       (phone + one-time code)
//   - POST /auth/password   (provider login + password)
//
// A successful login links the provider account to a local user, stores the
// identity mapping, and kicks off a best-effort background sync of the user's
// records (performed inside the auth service).
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/services"
)

//
// DTOs
//

// CodeLoginRequest is the JSON payload for one-time-code login.
type CodeLoginRequest struct {
	// Phone is the number the code was sent to.
	Phone string `json:"phone" binding:"required" example:"+79125551212"`
	// Code is the one-time confirmation code.
	Code string `json:"code" binding:"required" example:"482913"`
}

// PasswordLoginRequest is the JSON payload for password login.
type PasswordLoginRequest struct {
	Login    string `json:"login" binding:"required" example:"master@salon.example"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// UserView is the public shape of a linked user returned by login endpoints.
type UserView struct {
	ID             string `json:"id"`
	ProviderUserID int64  `json:"provider_user_id"`
	Phone          string `json:"phone,omitempty"`
}

func userView(u *domain.User) UserView {
	return UserView{ID: u.ID, ProviderUserID: u.ProviderUserID, Phone: u.Phone}
}

//
// Handlers
//

// LoginByCode godoc
// @ID          loginByCode
// @Summary     Log in with a one-time code
// @Description Exchanges a phone number and confirmation code for a linked local user.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CodeLoginRequest  true  "Code login payload"
//
// @Success     200  {object}  handlers.UserView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Authentication failed"
// @Router      /auth/code [post]
func (h *Handlers) LoginByCode(c *gin.Context) {
	var req CodeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	phone := strings.TrimSpace(req.Phone)
	code := strings.TrimSpace(req.Code)
	if phone == "" || code == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "phone and code are required")
		return
	}

	u, err := h.authSvc.LoginByCode(c.Request.Context(), phone, code)
	if err != nil {
		h.failLogin(c, err)
		return
	}
	ok(c, http.StatusOK, userView(u))
}

// LoginByPassword godoc
// @ID          loginByPassword
// @Summary     Log in with provider credentials
// @Description Exchanges a provider login and password for a linked local user.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.PasswordLoginRequest  true  "Password login payload"
//
// @Success     200  {object}  handlers.UserView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Authentication failed"
// @Router      /auth/password [post]
func (h *Handlers) LoginByPassword(c *gin.Context) {
	var req PasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "login and password are required")
		return
	}

	u, err := h.authSvc.LoginByPassword(c.Request.Context(), login, req.Password)
	if err != nil {
		h.failLogin(c, err)
		return
	}
	ok(c, http.StatusOK, userView(u))
}

// failLogin maps auth service errors onto the error envelope.
func (h *Handlers) failLogin(c *gin.Context, err error) {
	if errors.Is(err, services.ErrAuthFailed) {
		fail(c, http.StatusUnauthorized, ErrCodeAuthFailed, "provider authentication failed")
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
}
