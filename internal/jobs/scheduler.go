package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkrasov/salon-chat-sync/internal/services"
)

// Default cadences for the periodic sweeps.
const (
	DefaultRecordSyncInterval = time.Minute
	DefaultProjectionInterval = 5 * time.Minute
	DefaultDispatchInterval   = time.Minute
)

// Scheduler drives the three background loops: full record synchronization,
// chat status re-projection, and pending notification dispatch. Each loop
// runs on its own ticker until the context passed to Start is cancelled.
type Scheduler struct {
	RecordSync *services.RecordSyncService
	ChatSync   *services.ChatProjectionService
	Dispatcher *services.NotificationDispatcher

	RecordSyncInterval time.Duration
	ProjectionInterval time.Duration
	DispatchInterval   time.Duration

	Logger zerolog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler wires a Scheduler with default intervals.
func NewScheduler(recordSync *services.RecordSyncService, chatSync *services.ChatProjectionService, dispatcher *services.NotificationDispatcher, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		RecordSync:         recordSync,
		ChatSync:           chatSync,
		Dispatcher:         dispatcher,
		RecordSyncInterval: DefaultRecordSyncInterval,
		ProjectionInterval: DefaultProjectionInterval,
		DispatchInterval:   DefaultDispatchInterval,
		Logger:             logger,
	}
}

// Start launches the background loops. It returns immediately; call Stop to
// cancel the loops and wait for in-flight sweeps to finish.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	if s.RecordSync != nil {
		s.loop(ctx, "record_sync", s.RecordSyncInterval, s.runRecordSync)
	}
	if s.ChatSync != nil {
		s.loop(ctx, "chat_projection", s.ProjectionInterval, s.runProjection)
	}
	if s.Dispatcher != nil {
		s.loop(ctx, "notification_dispatch", s.DispatchInterval, s.runDispatch)
	}
}

// Stop cancels the loops and blocks until they all return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// loop runs fn once per interval until ctx is done.
func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, fn func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.Logger.Info().Str("job", name).Dur("interval", interval).Msg("job loop started")
		for {
			select {
			case <-ctx.Done():
				s.Logger.Info().Str("job", name).Msg("job loop stopped")
				return
			case <-ticker.C:
				start := time.Now()
				fn(ctx)
				jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			}
		}
	}()
}

func (s *Scheduler) runRecordSync(ctx context.Context) {
	stats := s.RecordSync.SweepAll(ctx)
	observeSyncStats("record_sync", stats)
	s.Logger.Info().
		Str("job", "record_sync").
		Int("processed", stats.RecordsProcessed).
		Int("created", stats.RecordsCreated).
		Int("updated", stats.RecordsUpdated).
		Int("unchanged", stats.RecordsUnchanged).
		Int("skipped", stats.RecordsSkipped).
		Int("errors", stats.Errors).
		Msg("record sync sweep finished")
}

func (s *Scheduler) runProjection(ctx context.Context) {
	stats := s.ChatSync.SweepAll(ctx, time.Now().UTC())
	observeSyncStats("chat_projection", stats)
	s.Logger.Info().
		Str("job", "chat_projection").
		Int("created", stats.ChatsCreated).
		Int("updated", stats.ChatsUpdated).
		Int("unchanged", stats.ChatsUnchanged).
		Int("errors", stats.Errors).
		Msg("chat projection sweep finished")
}

func (s *Scheduler) runDispatch(ctx context.Context) {
	stats := s.Dispatcher.Sweep(ctx, time.Now().UTC())
	observeDispatchStats("notification_dispatch", stats)
	s.Logger.Info().
		Str("job", "notification_dispatch").
		Int("sent", stats.Sent).
		Int("failed", stats.Failed).
		Int("dropped", stats.Dropped).
		Int("held", stats.Held).
		Int("errors", stats.Errors).
		Msg("notification dispatch sweep finished")
}
