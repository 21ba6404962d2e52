// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound for consistency across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// GetUser fetches a user by internal id, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByProviderID fetches a user by its booking-provider account id,
// or ErrNotFound.
func GetUserByProviderID(ctx context.Context, db *gorm.DB, providerUserID int64) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("provider_user_id = ?", providerUserID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user with a generated UUID and UTC timestamps.
func CreateUser(ctx context.Context, db *gorm.DB, providerUserID int64, name, phone string) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		ID:             uuid.NewString(),
		ProviderUserID: providerUserID,
		Name:           name,
		Phone:          phone,
		PushEnabled:    true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}
