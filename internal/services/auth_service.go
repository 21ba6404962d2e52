// Package services – AuthService
//
// Minimal identity linking against the booking provider: authenticate the end
// user, create or refresh their identity mapping, provision the internal user
// account on first login, and kick off the synchronous single-user sync so
// the account has chats immediately after login.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/provider"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

// AuthService authenticates users against the booking provider and maintains
// identity mappings.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Provider performs the credential exchange.
	Provider provider.Client
	// Sync, when set, runs the post-login synchronization (best effort).
	Sync *RecordSyncService
}

// LoginByCode authenticates with a phone number and SMS code.
func (s *AuthService) LoginByCode(ctx context.Context, phone, code string) (*domain.User, error) {
	session, err := s.Provider.AuthenticateByCode(ctx, phone, code)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return s.link(ctx, session, phone)
}

// LoginByPassword authenticates with provider login credentials. No phone is
// known on this path; the mapping keeps whatever phone it already carries.
func (s *AuthService) LoginByPassword(ctx context.Context, login, password string) (*domain.User, error) {
	session, err := s.Provider.AuthenticateByPassword(ctx, login, password)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return s.link(ctx, session, "")
}

// link creates or refreshes the identity mapping for the session and
// provisions the internal user on first login.
func (s *AuthService) link(ctx context.Context, session *provider.Session, phone string) (*domain.User, error) {
	identity, err := repo.GetIdentityByProviderUserID(ctx, s.DB, session.ID)
	switch {
	case err == nil:
		// Token refresh on every authentication.
		if err := repo.RefreshIdentityToken(ctx, s.DB, identity.ID, session.Token, ""); err != nil {
			return nil, err
		}
	case errors.Is(err, repo.ErrNotFound):
		// The authenticated provider account is the client-side identity.
		clientID := session.ID
		identity, err = repo.CreateIdentityMapping(ctx, s.DB, &domain.IdentityMapping{
			ProviderUserID: session.ID,
			ClientID:       &clientID,
			Phone:          phone,
			Token:          session.Token,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	// A person can be both a customer and an employee. When the login phone
	// matches an employed staff member, attach the staff id so their sync
	// scope covers the staff side too.
	if identity.StaffID == nil && phone != "" {
		if staff, err := s.Provider.FetchStaff(ctx); err == nil {
			for _, st := range staff {
				if st.IsFired || st.IsDeleted || st.User == nil || st.User.Phone != phone {
					continue
				}
				if err := repo.LinkIdentityStaff(ctx, s.DB, identity.ID, st.ID); err != nil {
					log.Warn().Err(err).Str("identity_id", identity.ID).Msg("staff link failed")
				}
				break
			}
		}
	}

	user, err := repo.GetUserByProviderID(ctx, s.DB, session.ID)
	if errors.Is(err, repo.ErrNotFound) {
		user, err = repo.CreateUser(ctx, s.DB, session.ID, "", phone)
	}
	if err != nil {
		return nil, err
	}

	if s.Sync != nil {
		if _, err := s.Sync.SyncForUser(ctx, user.ID); err != nil {
			// Post-login sync is best effort; the periodic jobs catch up.
			log.Warn().Err(err).Str("user_id", user.ID).Msg("post-login sync failed")
		}
	}
	return user, nil
}
