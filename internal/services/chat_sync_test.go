package services

import (
	"context"
	"testing"
	"time"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

func TestProjectionSweep_CoversEveryMapping(t *testing.T) {
	db := newServicesDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	withRecords, _ := repo.CreateChatMapping(ctx, db, 10, "", 20, "")
	empty, _ := repo.CreateChatMapping(ctx, db, 11, "", 21, "")

	rec := domain.BookingRecord{
		ChatMappingID: withRecords.ID,
		ExternalID:    1,
		Datetime:      now.Add(time.Hour),
		Attendance:    domain.AttendancePending,
		Length:        3600,
	}
	if _, err := repo.CreateRecord(ctx, db, &rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := NewChatProjectionService(db)
	stats := s.SweepAll(ctx, now)
	if stats.ChatsCreated != 1 || stats.Errors != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if _, err := repo.GetChatByMappingID(ctx, db, withRecords.ID); err != nil {
		t.Fatalf("chat missing for populated mapping: %v", err)
	}
	if _, err := repo.GetChatByMappingID(ctx, db, empty.ID); err == nil {
		t.Fatalf("empty mapping must not grow a chat")
	}

	// Re-running against unchanged input makes no writes.
	stats = s.SweepAll(ctx, now)
	if stats.ChatsCreated != 0 || stats.ChatsUpdated != 0 || stats.ChatsUnchanged != 1 {
		t.Fatalf("second sweep must be all-unchanged: %+v", stats)
	}
}
