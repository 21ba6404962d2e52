// Package services – RecordSyncService
//
// Orchestrates the record pipeline: pull booking records from the provider,
// resolve or create chat mappings, and reconcile each record into its
// mapping's sub-ledger. Runs in two shapes: the periodic all-staff sweep and
// the synchronous single-user path used right after login. Failures are
// isolated per staff member and per record; one bad record never aborts the
// sweep for unrelated mappings.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/observability"
	"github.com/mkrasov/salon-chat-sync/internal/provider"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

// RecordSyncService drives components fetcher → resolver → reconciler.
type RecordSyncService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Provider is the booking-provider client (staff listing).
	Provider provider.Client
	// Fetcher retrieves complete paginated record sets.
	Fetcher *RecordFetcher
	// Resolver finds or creates chat mappings.
	Resolver *ChatMappingResolver
	// Reconciler upserts records into sub-ledgers.
	Reconciler *RecordReconciler
	// Projector recomputes chat state for mappings touched by the
	// single-user path.
	Projector *ChatStatusProjector
}

// NewRecordSyncService wires the pipeline over one DB handle and provider
// client.
func NewRecordSyncService(db *gorm.DB, client provider.Client) *RecordSyncService {
	return &RecordSyncService{
		DB:         db,
		Provider:   client,
		Fetcher:    &RecordFetcher{Provider: client},
		Resolver:   &ChatMappingResolver{DB: db},
		Reconciler: &RecordReconciler{DB: db},
		Projector:  NewChatStatusProjector(db),
	}
}

// SweepAll pulls and reconciles the records of every employed staff member.
// A failed staff fetch aborts that staff member only; siblings continue.
func (s *RecordSyncService) SweepAll(ctx context.Context) SyncStats {
	tr := otel.Tracer(observability.TracerRecordSync)
	ctx, span := tr.Start(ctx, "SweepAll")
	defer span.End()

	var stats SyncStats

	staff, err := s.Provider.FetchStaff(ctx)
	if err != nil {
		log.Error().Err(err).Msg("record sweep: staff list fetch failed")
		stats.Errors++
		return stats
	}

	for _, st := range staff {
		if st.IsFired || st.IsDeleted {
			continue
		}
		staffStats, err := s.syncStaff(ctx, st)
		stats.Merge(staffStats)
		if err != nil {
			log.Error().Err(err).Int64("staff_id", st.ID).Msg("record sweep: staff sync failed")
			stats.Errors++
		}
	}
	return stats
}

// syncStaff fetches and reconciles all records of one staff member.
func (s *RecordSyncService) syncStaff(ctx context.Context, st provider.Staff) (SyncStats, error) {
	var stats SyncStats

	records, err := s.Fetcher.FetchAllByStaff(ctx, st.ID)
	if err != nil {
		return stats, err
	}

	staffPhone := ""
	if st.User != nil {
		staffPhone = st.User.Phone
	}

	for _, rec := range records {
		if _, err := s.processRecord(ctx, rec, staffPhone, &stats); err != nil {
			log.Error().Err(err).
				Int64("staff_id", st.ID).
				Int64("record_id", rec.ID).
				Msg("record sweep: record failed")
			stats.Errors++
		}
	}
	return stats, nil
}

// processRecord resolves the record's mapping and reconciles the record into
// it, tallying the outcome. Returns the touched mapping id ("" for skipped
// records).
func (s *RecordSyncService) processRecord(ctx context.Context, rec provider.Record, staffPhone string, stats *SyncStats) (string, error) {
	mapping, err := s.Resolver.ResolveRecord(ctx, rec, staffPhone)
	if errors.Is(err, ErrRecordWithoutClient) {
		// Internal/blocked booking; nothing to correlate.
		log.Debug().Int64("record_id", rec.ID).Msg("record without client skipped")
		stats.RecordsSkipped++
		return "", nil
	}
	if err != nil {
		return "", err
	}

	outcome, err := s.Reconciler.Reconcile(ctx, mapping.ID, rec)
	if err != nil {
		return "", err
	}

	stats.RecordsProcessed++
	switch outcome {
	case RecordCreated:
		stats.RecordsCreated++
	case RecordUpdated:
		stats.RecordsUpdated++
	case RecordUnchanged:
		stats.RecordsUnchanged++
	}
	return mapping.ID, nil
}

// SyncForUser runs the reconciliation synchronously for one identity: fetch
// the records in the user's scope (staff-side when the identity carries a
// staff id, client-side otherwise), reconcile them, then immediately project
// the touched mappings. Used for post-login synchronization.
func (s *RecordSyncService) SyncForUser(ctx context.Context, userID string) (SyncStats, error) {
	tr := otel.Tracer(observability.TracerRecordSync)
	ctx, span := tr.Start(ctx, "SyncForUser",
		trace.WithAttributes(
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	var stats SyncStats

	user, err := repo.GetUser(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return stats, ErrUserNotFound
	}
	if err != nil {
		return stats, err
	}

	identity, err := repo.GetIdentityByProviderUserID(ctx, s.DB, user.ProviderUserID)
	if errors.Is(err, repo.ErrNotFound) {
		return stats, ErrIdentityNotLinked
	}
	if err != nil {
		return stats, err
	}

	var records []provider.Record
	staffPhone := ""
	switch {
	case identity.StaffID != nil:
		records, err = s.Fetcher.FetchAllByStaff(ctx, *identity.StaffID)
		staffPhone = identity.Phone
	case identity.ClientID != nil:
		records, err = s.Fetcher.FetchAllByClient(ctx, *identity.ClientID)
	default:
		return stats, ErrIdentityNotLinked
	}
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	touched := make(map[string]struct{})
	for _, rec := range records {
		mappingID, err := s.processRecord(ctx, rec, staffPhone, &stats)
		if err != nil {
			log.Error().Err(err).
				Str("user_id", userID).
				Int64("record_id", rec.ID).
				Msg("user sync: record failed")
			stats.Errors++
			continue
		}
		if mappingID != "" {
			touched[mappingID] = struct{}{}
		}
	}

	now := time.Now().UTC()
	for mappingID := range touched {
		outcome, err := s.Projector.Project(ctx, mappingID, now)
		if err != nil {
			log.Error().Err(err).
				Str("user_id", userID).
				Str("mapping_id", mappingID).
				Msg("user sync: projection failed")
			stats.Errors++
			continue
		}
		switch outcome {
		case ChatCreated:
			stats.ChatsCreated++
		case ChatUpdated:
			stats.ChatsUpdated++
		case ChatUnchanged:
			stats.ChatsUnchanged++
		}
	}

	return stats, nil
}
