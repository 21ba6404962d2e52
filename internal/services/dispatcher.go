// Package services – NotificationDispatcher
//
// Drains the pending-notification queue. Each sweep moves every item either
// to a terminal state (sent/failed history row + removal from the pending
// set), drops it as stale (removal with no history row), or holds it for the
// next sweep when the referenced message is still inside the quiescence
// window. Per-item failures are logged and counted, never fatal to the sweep.
//
// Grounded state machine per item:
//
//	pending → dropped    recipient gone, message gone, or message already read
//	pending → held       message updated less than the quiescence window ago
//	pending → sent       no usable push token / notifications disabled
//	                     (recorded for audit, no delivery attempt)
//	pending → sent|failed  by the push gateway's delivery result
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/observability"
	"github.com/mkrasov/salon-chat-sync/internal/push"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

// DefaultQuiescence is the minimum time since a message's last update before
// a notification referencing it may be dispatched. It debounces notifications
// for just-sent or rapidly edited messages.
const DefaultQuiescence = time.Minute

// DispatchOutcome reports the terminal (or held) state of one item.
type DispatchOutcome int

const (
	// NotificationHeld means the item stays pending for the next sweep.
	NotificationHeld DispatchOutcome = iota
	// NotificationDropped means the item was removed as stale; no history.
	NotificationDropped
	// NotificationSent means a sent history row was written (with or
	// without an actual push attempt).
	NotificationSent
	// NotificationFailed means the gateway rejected delivery.
	NotificationFailed
)

// DispatchStats accumulates one sweep's counters.
type DispatchStats struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Dropped int `json:"dropped"`
	Held    int `json:"held"`
	Errors  int `json:"errors"`
}

// NotificationDispatcher processes the pending set sequentially.
type NotificationDispatcher struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Push delivers notifications; failures are terminal per item.
	Push push.Sender
	// Quiescence overrides DefaultQuiescence when > 0.
	Quiescence time.Duration
}

// Sweep processes every pending notification once. now is threaded explicitly
// so the quiescence gate is deterministic under test.
func (d *NotificationDispatcher) Sweep(ctx context.Context, now time.Time) DispatchStats {
	tr := otel.Tracer(observability.TracerDispatch)
	ctx, span := tr.Start(ctx, "Sweep")
	defer span.End()

	var stats DispatchStats

	items, err := repo.ListPendingNotifications(ctx, d.DB)
	if err != nil {
		log.Error().Err(err).Msg("notification sweep: list pending failed")
		stats.Errors++
		return stats
	}

	for _, n := range items {
		outcome, err := d.process(ctx, n, now)
		if err != nil {
			log.Error().Err(err).
				Str("notification_id", n.ID).
				Str("recipient_id", n.RecipientID).
				Msg("notification sweep: item failed")
			stats.Errors++
			continue
		}
		switch outcome {
		case NotificationSent:
			stats.Sent++
		case NotificationFailed:
			stats.Failed++
		case NotificationDropped:
			stats.Dropped++
		case NotificationHeld:
			stats.Held++
		}
	}
	return stats
}

func (d *NotificationDispatcher) process(ctx context.Context, n domain.PendingNotification, now time.Time) (DispatchOutcome, error) {
	user, err := repo.GetUser(ctx, d.DB, n.RecipientID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotificationDropped, d.drop(ctx, n)
	}
	if err != nil {
		return NotificationHeld, err
	}

	if n.MessageID != nil {
		msg, err := repo.GetMessage(ctx, d.DB, *n.MessageID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotificationDropped, d.drop(ctx, n)
		}
		if err != nil {
			return NotificationHeld, err
		}
		if msg.Status == domain.MessageStatusRead {
			return NotificationDropped, d.drop(ctx, n)
		}
		if now.Sub(msg.UpdatedAt) < d.quiescence() {
			// Too fresh; give the recipient a chance to read it first.
			return NotificationHeld, nil
		}
	}

	if user.PushToken == "" || !user.PushEnabled {
		// Terminal "sent" for audit purposes, without a delivery attempt.
		return NotificationSent, d.finish(ctx, n, domain.NotificationStatusSent)
	}

	payload := push.Payload{
		Title: n.Title,
		Body:  n.Body,
		Data:  pushData(n),
	}
	status := domain.NotificationStatusSent
	outcome := NotificationSent
	if err := d.Push.Send(ctx, user.PushToken, payload); err != nil {
		log.Warn().Err(err).
			Str("notification_id", n.ID).
			Str("recipient_id", n.RecipientID).
			Msg("push delivery failed")
		status = domain.NotificationStatusFailed
		outcome = NotificationFailed
	}
	return outcome, d.finish(ctx, n, status)
}

// drop removes a stale item from the pending set without an audit record.
func (d *NotificationDispatcher) drop(ctx context.Context, n domain.PendingNotification) error {
	return repo.DeletePendingNotification(ctx, d.DB, n.ID)
}

// finish writes the terminal history row and removes the item from the
// pending set.
func (d *NotificationDispatcher) finish(ctx context.Context, n domain.PendingNotification, status string) error {
	if _, err := repo.CreateNotificationHistory(ctx, d.DB, &n, status); err != nil {
		return err
	}
	return repo.DeletePendingNotification(ctx, d.DB, n.ID)
}

func (d *NotificationDispatcher) quiescence() time.Duration {
	if d.Quiescence > 0 {
		return d.Quiescence
	}
	return DefaultQuiescence
}

// pushData builds the opaque data payload carried alongside the push.
func pushData(n domain.PendingNotification) map[string]string {
	data := map[string]string{"type": n.Type}
	if n.ChatID != nil {
		data["chat_id"] = *n.ChatID
	}
	if n.MessageID != nil {
		data["message_id"] = *n.MessageID
	}
	return data
}
