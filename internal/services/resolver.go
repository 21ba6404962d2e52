// Package services – ChatMappingResolver
//
// Resolves a booking record (or a staff/client pair) to the single canonical
// ChatMapping, creating one lazily on first sight. The lookup treats the
// client phone as an alternate key under the shared staff id, so two
// provider client ids sharing a phone converge on one mapping.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/provider"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

// ChatMappingResolver finds or creates the mapping for a (staff, client)
// pair.
type ChatMappingResolver struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// ResolveRecord resolves the mapping for one booking record. A record with
// no client attached returns ErrRecordWithoutClient; the caller skips it
// without treating it as a failure. staffPhone, when known, is captured on
// newly created mappings as the staff-side fallback key.
func (r *ChatMappingResolver) ResolveRecord(ctx context.Context, rec provider.Record, staffPhone string) (*domain.ChatMapping, error) {
	if rec.Client == nil {
		return nil, ErrRecordWithoutClient
	}
	return r.Resolve(ctx, rec.StaffID, staffPhone, rec.Client.ID, rec.Client.Phone)
}

// Resolve returns the canonical mapping for the triple, creating one with
// the identity fields captured as given when no match exists.
func (r *ChatMappingResolver) Resolve(ctx context.Context, staffID int64, staffPhone string, clientID int64, clientPhone string) (*domain.ChatMapping, error) {
	m, err := repo.FindChatMapping(ctx, r.DB, staffID, clientID, clientPhone)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	return repo.CreateChatMapping(ctx, r.DB, staffID, staffPhone, clientID, clientPhone)
}
