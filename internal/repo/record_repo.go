// Package repo — BookingRecord (sub-ledger) repository.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
)

// GetRecordByExternalID fetches the sub-ledger entry for an external record
// id under the given mapping, or ErrNotFound.
func GetRecordByExternalID(ctx context.Context, db *gorm.DB, mappingID string, externalID int64) (*domain.BookingRecord, error) {
	var r domain.BookingRecord
	err := db.WithContext(ctx).
		Where("chat_mapping_id = ? AND external_id = ?", mappingID, externalID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRecord inserts a new sub-ledger entry with a generated UUID.
func CreateRecord(ctx context.Context, db *gorm.DB, r *domain.BookingRecord) (*domain.BookingRecord, error) {
	now := time.Now().UTC()
	r.ID = uuid.NewString()
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRecord overwrites the comparison-relevant fields of an existing
// entry. Returns ErrNotFound when no row matched.
func UpdateRecord(ctx context.Context, db *gorm.DB, r *domain.BookingRecord) error {
	res := db.WithContext(ctx).
		Model(&domain.BookingRecord{}).
		Where("id = ?", r.ID).
		Updates(map[string]any{
			"deleted":        r.Deleted,
			"service_title":  r.ServiceTitle,
			"service_id":     r.ServiceID,
			"datetime":       r.Datetime,
			"attendance":     r.Attendance,
			"length":         r.Length,
			"payment_status": r.PaymentStatus,
			"bookform_id":    r.BookformID,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListRecords returns the full sub-ledger of a mapping ordered by scheduled
// datetime ascending.
func ListRecords(ctx context.Context, db *gorm.DB, mappingID string) ([]domain.BookingRecord, error) {
	var out []domain.BookingRecord
	err := db.WithContext(ctx).
		Where("chat_mapping_id = ?", mappingID).
		Order("datetime asc").
		Find(&out).Error
	return out, err
}
