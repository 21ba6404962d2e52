// Package services – RecordReconciler
//
// Upserts one external booking record into a mapping's sub-ledger with
// field-level change detection. The compare-then-write step is the
// idempotence guarantee for the whole pipeline: re-applying an unchanged
// upstream record produces zero writes, so overlapping job runs converge
// instead of corrupting state.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/provider"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

// ReconcileOutcome reports what a single reconciliation did.
type ReconcileOutcome int

const (
	// RecordUnchanged means every compared field already matched; no write.
	RecordUnchanged ReconcileOutcome = iota
	// RecordCreated means the external record id was seen for the first time.
	RecordCreated
	// RecordUpdated means at least one compared field differed.
	RecordUpdated
)

// datetimeLayouts are the wire formats the provider has been observed to use
// for record datetimes, tried in order.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
}

// RecordReconciler maintains the sub-ledger of one or more chat mappings.
type RecordReconciler struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Reconcile ensures the sub-ledger entry for rec under mappingID reflects the
// record's current state with minimal writes.
func (r *RecordReconciler) Reconcile(ctx context.Context, mappingID string, rec provider.Record) (ReconcileOutcome, error) {
	norm, err := normalizeRecord(mappingID, rec)
	if err != nil {
		return RecordUnchanged, err
	}

	existing, err := repo.GetRecordByExternalID(ctx, r.DB, mappingID, rec.ID)
	if errors.Is(err, repo.ErrNotFound) {
		if _, err := repo.CreateRecord(ctx, r.DB, norm); err != nil {
			return RecordUnchanged, err
		}
		return RecordCreated, nil
	}
	if err != nil {
		return RecordUnchanged, err
	}

	if recordsEqual(existing, norm) {
		return RecordUnchanged, nil
	}

	norm.ID = existing.ID
	if err := repo.UpdateRecord(ctx, r.DB, norm); err != nil {
		return RecordUnchanged, err
	}
	return RecordUpdated, nil
}

// normalizeRecord converts a provider record into the comparison-ready
// projection shape: first listed service's title/id, datetime parsed to a
// precise timestamp, numeric codes carried as-is.
func normalizeRecord(mappingID string, rec provider.Record) (*domain.BookingRecord, error) {
	dt, err := parseRecordDatetime(rec.Datetime)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", rec.ID, err)
	}

	var serviceTitle *string
	var serviceID *int64
	if len(rec.Services) > 0 {
		t := rec.Services[0].Title
		id := rec.Services[0].ID
		serviceTitle = &t
		serviceID = &id
	}

	return &domain.BookingRecord{
		ChatMappingID: mappingID,
		ExternalID:    rec.ID,
		Deleted:       rec.Deleted,
		ServiceTitle:  serviceTitle,
		ServiceID:     serviceID,
		Datetime:      dt,
		Attendance:    rec.Attendance,
		Length:        rec.Length,
		PaymentStatus: rec.PaymentStatus,
		BookformID:    rec.BookformID,
	}, nil
}

func parseRecordDatetime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable datetime %q", s)
}

// recordsEqual compares every normalized field. Timestamp comparison is
// exact-instant equality, not struct equality, so differing wall-clock
// representations of the same instant do not trigger writes.
func recordsEqual(a, b *domain.BookingRecord) bool {
	return a.Deleted == b.Deleted &&
		eqStringPtr(a.ServiceTitle, b.ServiceTitle) &&
		eqInt64Ptr(a.ServiceID, b.ServiceID) &&
		a.Datetime.Equal(b.Datetime) &&
		a.Attendance == b.Attendance &&
		a.Length == b.Length &&
		a.PaymentStatus == b.PaymentStatus &&
		eqInt64Ptr(a.BookformID, b.BookformID)
}

func eqStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
