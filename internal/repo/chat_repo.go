// Package repo — Chat repository.
//
// At most one chat exists per chat mapping (enforced by a unique index on
// chat_mapping_id). The projector overwrites derived fields wholesale; chats
// are never deleted.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
)

// GetChatByMappingID fetches the chat correlated to a mapping, or ErrNotFound.
func GetChatByMappingID(ctx context.Context, db *gorm.DB, mappingID string) (*domain.Chat, error) {
	var c domain.Chat
	if err := db.WithContext(ctx).Where("chat_mapping_id = ?", mappingID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetChat fetches a chat by internal id, or ErrNotFound.
func GetChat(ctx context.Context, db *gorm.DB, id string) (*domain.Chat, error) {
	var c domain.Chat
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateChat inserts a new chat row. The caller supplies the generated id and
// derived fields; timestamps are set here.
func CreateChat(ctx context.Context, db *gorm.DB, c *domain.Chat) (*domain.Chat, error) {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateChatProjection overwrites the derived fields of an existing chat.
// Returns ErrNotFound when no row matched.
func UpdateChatProjection(ctx context.Context, db *gorm.DB, c *domain.Chat) error {
	res := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"participants": c.Participants,
			"title":        c.Title,
			"display_date": c.DisplayDate,
			"status":       c.Status,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
