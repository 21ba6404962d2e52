// Package repo — IdentityMapping repository.
//
// Identity mappings link one booking-provider identity (client and/or staff)
// to one internal user. Lookups exist for every key the participant resolver
// uses: client id, staff id, phone, and the provider account id produced by
// authentication.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
)

// GetIdentityByClientID fetches the mapping carrying the given provider
// client id, or ErrNotFound.
func GetIdentityByClientID(ctx context.Context, db *gorm.DB, clientID int64) (*domain.IdentityMapping, error) {
	var m domain.IdentityMapping
	if err := db.WithContext(ctx).Where("client_id = ?", clientID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetIdentityByStaffID fetches the mapping carrying the given provider staff
// id, or ErrNotFound.
func GetIdentityByStaffID(ctx context.Context, db *gorm.DB, staffID int64) (*domain.IdentityMapping, error) {
	var m domain.IdentityMapping
	if err := db.WithContext(ctx).Where("staff_id = ?", staffID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetIdentityByPhone fetches the mapping keyed by phone number, or
// ErrNotFound. Blank phones never match.
func GetIdentityByPhone(ctx context.Context, db *gorm.DB, phone string) (*domain.IdentityMapping, error) {
	if phone == "" {
		return nil, ErrNotFound
	}
	var m domain.IdentityMapping
	if err := db.WithContext(ctx).Where("phone = ?", phone).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetIdentityByProviderUserID fetches the mapping created for the given
// provider account id, or ErrNotFound.
func GetIdentityByProviderUserID(ctx context.Context, db *gorm.DB, providerUserID int64) (*domain.IdentityMapping, error) {
	var m domain.IdentityMapping
	if err := db.WithContext(ctx).Where("provider_user_id = ?", providerUserID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateIdentityMapping inserts a new mapping with a generated UUID.
func CreateIdentityMapping(ctx context.Context, db *gorm.DB, m *domain.IdentityMapping) (*domain.IdentityMapping, error) {
	now := time.Now().UTC()
	m.ID = uuid.NewString()
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// LinkIdentityStaff attaches a provider staff id to an existing mapping. Used
// when a logged-in person turns out to also be an employee of the salon.
func LinkIdentityStaff(ctx context.Context, db *gorm.DB, id string, staffID int64) error {
	res := db.WithContext(ctx).
		Model(&domain.IdentityMapping{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"staff_id":   staffID,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RefreshIdentityToken stores a fresh provider token (and display name, when
// non-empty) on an existing mapping. Returns ErrNotFound when no row matched.
func RefreshIdentityToken(ctx context.Context, db *gorm.DB, id, token, displayName string) error {
	updates := map[string]any{
		"token":      token,
		"updated_at": time.Now().UTC(),
	}
	if displayName != "" {
		updates["display_name"] = displayName
	}
	res := db.WithContext(ctx).
		Model(&domain.IdentityMapping{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
