package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/push"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

// fakeSender records delivery attempts and fails on demand.
type fakeSender struct {
	sent []string // tokens in delivery order
	err  error
}

func (f *fakeSender) Send(_ context.Context, token string, _ push.Payload) error {
	f.sent = append(f.sent, token)
	return f.err
}

func seedNotification(t *testing.T, db *gorm.DB, recipientID string, messageID *string) *domain.PendingNotification {
	t.Helper()
	n, err := repo.CreatePendingNotification(context.Background(), db, &domain.PendingNotification{
		Type:        domain.NotificationTypeNewMessage,
		Title:       "New message",
		Body:        "hello",
		RecipientID: recipientID,
		MessageID:   messageID,
	})
	if err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return n
}

func seedMessage(t *testing.T, db *gorm.DB, status string, updatedAt time.Time) *domain.Message {
	t.Helper()
	m := &domain.Message{
		ID:        uuid.NewString(),
		ChatID:    uuid.NewString(),
		SenderID:  uuid.NewString(),
		Text:      "hi",
		Status:    status,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return m
}

func TestSweep_MissingRecipientDroppedWithoutHistory(t *testing.T) {
	db := newServicesDB(t)
	ctx := context.Background()

	seedNotification(t, db, "nobody", nil)

	sender := &fakeSender{}
	d := &NotificationDispatcher{DB: db, Push: sender}
	stats := d.Sweep(ctx, time.Now().UTC())
	if stats.Dropped != 1 || stats.Sent != 0 || stats.Errors != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	pending, _ := repo.ListPendingNotifications(ctx, db)
	if len(pending) != 0 {
		t.Fatalf("stale item must leave the pending set")
	}
	total, _ := repo.CountNotificationHistory(ctx, db, "nobody")
	if total != 0 {
		t.Fatalf("early-exit drop must not write history, got %d rows", total)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("no delivery attempt expected")
	}
}

func TestSweep_ReadMessageDropped(t *testing.T) {
	db := newServicesDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	u, _ := repo.CreateUser(ctx, db, 1001, "", "+7111")
	msg := seedMessage(t, db, domain.MessageStatusRead, now.Add(-time.Hour))
	seedNotification(t, db, u.ID, &msg.ID)

	d := &NotificationDispatcher{DB: db, Push: &fakeSender{}}
	stats := d.Sweep(ctx, now)
	if stats.Dropped != 1 {
		t.Fatalf("already-read message must drop the notification: %+v", stats)
	}
	total, _ := repo.CountNotificationHistory(ctx, db, u.ID)
	if total != 0 {
		t.Fatalf("read-message drop must not write history")
	}
}

func TestSweep_QuiescenceDebounce(t *testing.T) {
	db := newServicesDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	u, err := repo.CreateUser(ctx, db, 1001, "", "+7111")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	db.Model(&domain.User{}).Where("id = ?", u.ID).Update("push_token", "tok-1")

	msg := seedMessage(t, db, domain.MessageStatusSent, now.Add(-30*time.Second))
	seedNotification(t, db, u.ID, &msg.ID)

	sender := &fakeSender{}
	d := &NotificationDispatcher{DB: db, Push: sender}

	// 30 seconds old: inside the one-minute window, held for the next sweep.
	stats := d.Sweep(ctx, now)
	if stats.Held != 1 || stats.Sent != 0 {
		t.Fatalf("expected hold inside quiescence window: %+v", stats)
	}
	pending, _ := repo.ListPendingNotifications(ctx, db)
	if len(pending) != 1 {
		t.Fatalf("held item must stay pending")
	}

	// Re-swept 61 seconds later with the message unchanged: dispatched.
	stats = d.Sweep(ctx, now.Add(61*time.Second))
	if stats.Sent != 1 || stats.Held != 0 {
		t.Fatalf("expected dispatch after quiescence: %+v", stats)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "tok-1" {
		t.Fatalf("expected one delivery to tok-1, got %v", sender.sent)
	}
	pending, _ = repo.ListPendingNotifications(ctx, db)
	if len(pending) != 0 {
		t.Fatalf("dispatched item must leave the pending set")
	}
	total, _ := repo.CountNotificationHistory(ctx, db, u.ID)
	if total != 1 {
		t.Fatalf("expected one history row, got %d", total)
	}
}

func TestSweep_NoTokenRecordedAsSentWithoutDelivery(t *testing.T) {
	db := newServicesDB(t)
	ctx := context.Background()

	u, _ := repo.CreateUser(ctx, db, 1001, "", "+7111") // no push token
	seedNotification(t, db, u.ID, nil)

	sender := &fakeSender{}
	d := &NotificationDispatcher{DB: db, Push: sender}
	stats := d.Sweep(ctx, time.Now().UTC())
	if stats.Sent != 1 {
		t.Fatalf("token-less recipient must still settle as sent: %+v", stats)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("no delivery attempt expected without a token")
	}
	total, _ := repo.CountNotificationHistory(ctx, db, u.ID)
	if total != 1 {
		t.Fatalf("audit history row expected")
	}
}

func TestSweep_PushDisabledRecordedAsSent(t *testing.T) {
	db := newServicesDB(t)
	ctx := context.Background()

	u, _ := repo.CreateUser(ctx, db, 1001, "", "+7111")
	db.Model(&domain.User{}).Where("id = ?", u.ID).
		Updates(map[string]any{"push_token": "tok-1", "push_enabled": false})
	seedNotification(t, db, u.ID, nil)

	sender := &fakeSender{}
	d := &NotificationDispatcher{DB: db, Push: sender}
	stats := d.Sweep(ctx, time.Now().UTC())
	if stats.Sent != 1 || len(sender.sent) != 0 {
		t.Fatalf("disabled notifications must settle as sent with no attempt: %+v", stats)
	}
}

func TestSweep_GatewayFailureRecordedAsFailed(t *testing.T) {
	db := newServicesDB(t)
	ctx := context.Background()

	u, _ := repo.CreateUser(ctx, db, 1001, "", "+7111")
	db.Model(&domain.User{}).Where("id = ?", u.ID).Update("push_token", "tok-1")
	seedNotification(t, db, u.ID, nil)

	d := &NotificationDispatcher{DB: db, Push: &fakeSender{err: errors.New("gateway down")}}
	stats := d.Sweep(ctx, time.Now().UTC())
	if stats.Failed != 1 || stats.Sent != 0 {
		t.Fatalf("expected failed outcome: %+v", stats)
	}

	var hist []domain.NotificationHistory
	db.Find(&hist)
	if len(hist) != 1 || hist[0].Status != domain.NotificationStatusFailed {
		t.Fatalf("expected one failed history row, got %+v", hist)
	}
	pending, _ := repo.ListPendingNotifications(ctx, db)
	if len(pending) != 0 {
		t.Fatalf("failed item must still leave the pending set")
	}
}

func TestSweep_MixedItemsProcessedIndependently(t *testing.T) {
	db := newServicesDB(t)
	ctx := context.Background()

	u, _ := repo.CreateUser(ctx, db, 1001, "", "+7111")
	db.Model(&domain.User{}).Where("id = ?", u.ID).Update("push_token", "tok-1")

	seedNotification(t, db, "nobody", nil) // dropped
	seedNotification(t, db, u.ID, nil)     // sent

	sender := &fakeSender{}
	d := &NotificationDispatcher{DB: db, Push: sender}
	stats := d.Sweep(ctx, time.Now().UTC())
	if stats.Dropped != 1 || stats.Sent != 1 || stats.Errors != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("exactly one delivery expected, got %d", len(sender.sent))
	}
}
