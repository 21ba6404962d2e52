package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
)

func TestChatRepo_CreateGetAndProjectionUpdate(t *testing.T) {
	db := newRepoDB(t, &domain.Chat{})
	ctx := context.Background()

	title := "Haircut"
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	chat, err := CreateChat(ctx, db, &domain.Chat{
		ID:            uuid.NewString(),
		ChatMappingID: "m1",
		Participants:  []string{"u1", "u2"},
		Title:         &title,
		DisplayDate:   &when,
		Status:        domain.ChatStatusActive,
	})
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	got, err := GetChatByMappingID(ctx, db, "m1")
	if err != nil {
		t.Fatalf("GetChatByMappingID: %v", err)
	}
	if got.ID != chat.ID || len(got.Participants) != 2 || got.Status != domain.ChatStatusActive {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	got.Status = domain.ChatStatusArchived
	got.Participants = []string{"u1"}
	got.Title = nil
	if err := UpdateChatProjection(ctx, db, got); err != nil {
		t.Fatalf("UpdateChatProjection: %v", err)
	}

	reloaded, err := GetChat(ctx, db, chat.ID)
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if reloaded.Status != domain.ChatStatusArchived || len(reloaded.Participants) != 1 || reloaded.Title != nil {
		t.Fatalf("projection update not persisted: %+v", reloaded)
	}
}

func TestUpdateChatProjection_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Chat{})

	err := UpdateChatProjection(context.Background(), db, &domain.Chat{ID: "missing"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotificationRepo_QueueLifecycle(t *testing.T) {
	db := newRepoDB(t, &domain.PendingNotification{}, &domain.NotificationHistory{})
	ctx := context.Background()

	n, err := CreatePendingNotification(ctx, db, &domain.PendingNotification{
		Type:        domain.NotificationTypeNewMessage,
		Title:       "New message",
		RecipientID: "u1",
	})
	if err != nil {
		t.Fatalf("CreatePendingNotification: %v", err)
	}

	pending, err := ListPendingNotifications(ctx, db)
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListPendingNotifications: %+v, %v", pending, err)
	}

	if _, err := CreateNotificationHistory(ctx, db, n, domain.NotificationStatusSent); err != nil {
		t.Fatalf("CreateNotificationHistory: %v", err)
	}
	if err := DeletePendingNotification(ctx, db, n.ID); err != nil {
		t.Fatalf("DeletePendingNotification: %v", err)
	}

	pending, _ = ListPendingNotifications(ctx, db)
	if len(pending) != 0 {
		t.Fatalf("pending set not drained: %+v", pending)
	}
	total, err := CountNotificationHistory(ctx, db, "u1")
	if err != nil || total != 1 {
		t.Fatalf("CountNotificationHistory: %d, %v", total, err)
	}
}
