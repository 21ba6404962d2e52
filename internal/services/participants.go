// Package services – ParticipantResolver
//
// Maps a chat mapping's (client, staff) identity fields to zero, one, or two
// internal user ids. Each side runs an explicit ordered list of resolution
// strategies (numeric id first, phone fallback); the first strategy that
// yields both an identity mapping and a resolvable user wins. An unresolved
// side is silently omitted — a chat may legitimately have fewer than two
// participants until both sides have authenticated.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

// identityLookup is one step of a fallback chain. It returns repo.ErrNotFound
// when the key does not match; any other error aborts the chain.
type identityLookup func(ctx context.Context) (*domain.IdentityMapping, error)

// ParticipantResolver resolves chat participants from identity mappings.
type ParticipantResolver struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Resolve returns the internal user ids for the mapping's client and staff
// sides, client first. Unmatched sides are omitted without error.
func (p *ParticipantResolver) Resolve(ctx context.Context, m *domain.ChatMapping) ([]string, error) {
	clientChain := []identityLookup{
		func(ctx context.Context) (*domain.IdentityMapping, error) {
			if m.ClientID == 0 {
				return nil, repo.ErrNotFound
			}
			return repo.GetIdentityByClientID(ctx, p.DB, m.ClientID)
		},
		func(ctx context.Context) (*domain.IdentityMapping, error) {
			return repo.GetIdentityByPhone(ctx, p.DB, m.ClientPhone)
		},
	}
	staffChain := []identityLookup{
		func(ctx context.Context) (*domain.IdentityMapping, error) {
			if m.StaffID == 0 {
				return nil, repo.ErrNotFound
			}
			return repo.GetIdentityByStaffID(ctx, p.DB, m.StaffID)
		},
		func(ctx context.Context) (*domain.IdentityMapping, error) {
			return repo.GetIdentityByPhone(ctx, p.DB, m.StaffPhone)
		},
	}

	participants := make([]string, 0, 2)
	for _, chain := range [][]identityLookup{clientChain, staffChain} {
		uid, ok, err := p.resolveSide(ctx, chain)
		if err != nil {
			return nil, err
		}
		if ok {
			participants = append(participants, uid)
		}
	}
	return participants, nil
}

// resolveSide walks one fallback chain and returns the first user id it can
// fully resolve. A mapping whose user has not been provisioned yet does not
// stop the chain; later strategies may match a different mapping.
func (p *ParticipantResolver) resolveSide(ctx context.Context, chain []identityLookup) (string, bool, error) {
	for _, lookup := range chain {
		m, err := lookup(ctx)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", false, err
		}

		u, err := repo.GetUserByProviderID(ctx, p.DB, m.ProviderUserID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", false, err
		}
		return u.ID, true, nil
	}
	return "", false, nil
}
