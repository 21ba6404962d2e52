// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes the symbolic error code constants that are mapped to
// HTTP responses via the `fail()` helper. These codes give clients a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless noted.
//   - Generic codes (bad_request, unauthorized, not_found, ...) mirror common
//     HTTP status semantics.
//   - Domain-specific codes (sync_failed, auth_failed, not_linked) are reserved
//     for business logic errors that cannot be conveyed by status alone.

package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeSyncFailed       = "sync_failed"
	ErrCodeAuthFailed       = "auth_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
