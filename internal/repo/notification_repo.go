// Package repo — notification queue and sent-history repositories.
//
// The dispatcher drains pending_notifications and records terminal outcomes
// in notification_history. Removal from the pending set happens on every
// terminal transition, including early-exit cleanup of stale items.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
)

// ListPendingNotifications returns the whole pending set, oldest first.
func ListPendingNotifications(ctx context.Context, db *gorm.DB) ([]domain.PendingNotification, error) {
	var out []domain.PendingNotification
	err := db.WithContext(ctx).Order("created_at asc").Find(&out).Error
	return out, err
}

// CreatePendingNotification enqueues a notification intent. Used by the
// message-send path and by tests.
func CreatePendingNotification(ctx context.Context, db *gorm.DB, n *domain.PendingNotification) (*domain.PendingNotification, error) {
	now := time.Now().UTC()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = now
	n.UpdatedAt = now
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// DeletePendingNotification removes an item from the pending set.
func DeletePendingNotification(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.PendingNotification{}).Error
}

// CreateNotificationHistory writes the terminal outcome record for a
// processed notification.
func CreateNotificationHistory(ctx context.Context, db *gorm.DB, n *domain.PendingNotification, status string) (*domain.NotificationHistory, error) {
	now := time.Now().UTC()
	h := &domain.NotificationHistory{
		ID:          uuid.NewString(),
		Type:        n.Type,
		Title:       n.Title,
		Body:        n.Body,
		SenderID:    n.SenderID,
		RecipientID: n.RecipientID,
		ChatID:      n.ChatID,
		MessageID:   n.MessageID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

// CountNotificationHistory returns the number of history rows for a
// recipient. Test helper for cleanup semantics.
func CountNotificationHistory(ctx context.Context, db *gorm.DB, recipientID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.NotificationHistory{}).
		Where("recipient_id = ?", recipientID).
		Count(&total).Error
	return total, err
}
