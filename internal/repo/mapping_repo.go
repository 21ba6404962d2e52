// Package repo — ChatMapping repository.
//
// The find query implements the mapping uniqueness key: one mapping per
// staff id and client-id-or-client-phone combination. The phone is a valid
// alternate match so a client who re-registers with a new provider id but
// the same phone resolves to the prior mapping.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
)

// FindChatMapping returns the mapping matching staffID and either clientID or
// clientPhone, or ErrNotFound. Blank phones never participate in matching.
func FindChatMapping(ctx context.Context, db *gorm.DB, staffID, clientID int64, clientPhone string) (*domain.ChatMapping, error) {
	q := db.WithContext(ctx).Where("staff_id = ?", staffID)
	if clientPhone != "" {
		q = q.Where("client_id = ? OR client_phone = ?", clientID, clientPhone)
	} else {
		q = q.Where("client_id = ?", clientID)
	}
	var m domain.ChatMapping
	if err := q.First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateChatMapping inserts a new mapping with a generated UUID. Identity
// fields are immutable after creation.
func CreateChatMapping(ctx context.Context, db *gorm.DB, staffID int64, staffPhone string, clientID int64, clientPhone string) (*domain.ChatMapping, error) {
	m := &domain.ChatMapping{
		ID:          uuid.NewString(),
		StaffID:     staffID,
		StaffPhone:  staffPhone,
		ClientID:    clientID,
		ClientPhone: clientPhone,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// GetChatMapping fetches a mapping by internal id, or ErrNotFound.
func GetChatMapping(ctx context.Context, db *gorm.DB, id string) (*domain.ChatMapping, error) {
	var m domain.ChatMapping
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListChatMappings returns every known mapping, oldest first. The projection
// sweep iterates this list.
func ListChatMappings(ctx context.Context, db *gorm.DB) ([]domain.ChatMapping, error) {
	var out []domain.ChatMapping
	err := db.WithContext(ctx).Order("created_at asc").Find(&out).Error
	return out, err
}
