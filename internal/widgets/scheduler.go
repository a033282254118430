package widgets

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

// envelopeCache is the write side of the cache the scheduler keeps warm.
type envelopeCache interface {
	Set(ctx context.Context, key string, data *dto.WidgetData, ttl time.Duration)
}

// Scheduler drives the background refresh cycle: one periodic job per enabled
// widget at its refresh interval. A tick that fires while the previous tick
// for the same widget is still running is skipped, not queued, so each widget
// has at most one outstanding fetch.
type Scheduler struct {
	cron  *cron.Cron
	reg   *Registry
	cache envelopeCache
	log   *slog.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewScheduler(reg *Registry, cache envelopeCache, log *slog.Logger) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cl))),
		reg:     reg,
		cache:   cache,
		log:     log,
		entries: make(map[string]cron.EntryID),
	}
}

// Start registers the built-in widget types, loads widget configuration from
// storage, schedules every enabled widget, and starts the timer loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.reg.RegisterDefaults()
	if err := s.reg.LoadFromStore(ctx); err != nil {
		return err
	}
	for _, w := range s.reg.Instances() {
		s.Schedule(w.Instance())
	}
	s.cron.Start()
	s.log.Info("widget scheduler started", "jobs", len(s.entries))
	return nil
}

// Schedule (re-)schedules the periodic refresh for one widget. The job is
// keyed by widget id: scheduling the same id again replaces the existing job
// instead of duplicating it. Disabled widgets are unscheduled.
func (s *Scheduler) Schedule(inst Instance) {
	if !inst.Enabled {
		s.Unschedule(inst.ID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.entries[inst.ID]; ok {
		s.cron.Remove(old)
	}
	id := inst.ID
	s.entries[inst.ID] = s.cron.Schedule(
		cron.Every(inst.RefreshInterval),
		cron.FuncJob(func() { s.refresh(id) }),
	)
}

// Unschedule removes the refresh job for a widget id, if any.
func (s *Scheduler) Unschedule(widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[widgetID]; ok {
		s.cron.Remove(entry)
		delete(s.entries, widgetID)
	}
}

// ScheduledIDs returns the widget ids with an active job.
func (s *Scheduler) ScheduledIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	return ids
}

// refresh is one tick: re-resolve the widget from the registry (so registry
// updates take effect without re-scheduling), fetch, and cache on success. A
// failed fetch leaves the previous cache entry in place so consumers keep the
// last-known-good value.
func (s *Scheduler) refresh(widgetID string) {
	ctx := logger.ToContext(context.Background(), s.log)

	w := s.reg.Get(widgetID)
	if w == nil {
		s.log.Warn("scheduled widget no longer registered", "widget_id", widgetID)
		return
	}
	inst := w.Instance()

	data := GetData(ctx, w)
	if data.Error != "" {
		s.log.Warn("background refresh failed, keeping last cached value",
			"widget_id", inst.ID, "widget_type", inst.Type, "error", data.Error)
		return
	}

	s.cache.Set(ctx, CacheKey(inst), &data, inst.RefreshInterval)
	s.log.Debug("background refresh completed", "widget_id", inst.ID, "widget_type", inst.Type)
}

// Shutdown cancels all jobs and waits for in-flight ticks, bounded by ctx.
func (s *Scheduler) Shutdown(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.log.Info("widget scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("widget scheduler shutdown timed out with jobs in flight")
	}
}

// cronLogger adapts slog to the cron.Logger interface. Skipped overlapping
// ticks surface here at info level.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
