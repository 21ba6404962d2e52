// Package services implements the reconciliation engine: booking-record
// fetching, chat-mapping resolution, record reconciliation, chat status
// projection, participant resolution, and notification dispatch.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrUserNotFound indicates that the referenced internal user does not
	// exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrIdentityNotLinked is returned when a user has no identity mapping
	// against the booking provider, so no sync scope can be derived.
	ErrIdentityNotLinked = errors.New("identity mapping not found")

	// ErrProviderUnavailable wraps upstream fetch failures on
	// request-triggered paths.
	ErrProviderUnavailable = errors.New("booking provider unavailable")

	// ErrAuthFailed is returned when the booking provider rejects the
	// presented credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRecordWithoutClient marks an internal/blocked booking that carries
	// no client; such records are skipped, never mapped to a chat.
	ErrRecordWithoutClient = errors.New("booking record has no client")
)
