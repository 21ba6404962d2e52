// Package services – ChatProjectionService
//
// The five-minute sweep: recompute participants and derived status for every
// known chat mapping. Purely a loop over the projector with per-mapping error
// isolation; the projector itself guarantees no write on unchanged input.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/observability"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

// ChatProjectionService drives the projector across all mappings.
type ChatProjectionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Projector recomputes chat state.
	Projector *ChatStatusProjector
}

// NewChatProjectionService wires the sweep over one DB handle.
func NewChatProjectionService(db *gorm.DB) *ChatProjectionService {
	return &ChatProjectionService{DB: db, Projector: NewChatStatusProjector(db)}
}

// SweepAll projects every known mapping once. now is threaded explicitly so
// the activity rule is deterministic under test.
func (s *ChatProjectionService) SweepAll(ctx context.Context, now time.Time) SyncStats {
	tr := otel.Tracer(observability.TracerProjection)
	ctx, span := tr.Start(ctx, "SweepAll")
	defer span.End()

	var stats SyncStats

	mappings, err := repo.ListChatMappings(ctx, s.DB)
	if err != nil {
		log.Error().Err(err).Msg("projection sweep: list mappings failed")
		stats.Errors++
		return stats
	}

	for _, m := range mappings {
		outcome, err := s.Projector.Project(ctx, m.ID, now)
		if err != nil {
			log.Error().Err(err).Str("mapping_id", m.ID).Msg("projection sweep: mapping failed")
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
	return stats
}
