// Package repo — Message repository.
//
// Messages are written by the external send path; this service only reads
// them for notification gating.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
)

// GetMessage fetches a message by id, or ErrNotFound.
func GetMessage(ctx context.Context, db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
