package questionnaire

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SweeperConfig controls idle session expiry.
type SweeperConfig struct {
	// Timeout is how long a session may stay idle. Default: 30m.
	Timeout time.Duration

	// Interval is how often idle sessions are swept. Default: 1m.
	Interval time.Duration
}

// DefaultSweeperConfig returns the default expiry settings.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Timeout:  30 * time.Minute,
		Interval: time.Minute,
	}
}

// Sweeper periodically expires idle sessions from a Store.
type Sweeper struct {
	store   *Store
	config  SweeperConfig
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time
	mu      sync.Mutex
	running bool
}

// NewSweeper creates a sweeper for store. Zero config fields take their
// defaults.
func NewSweeper(store *Store, config SweeperConfig, logger *slog.Logger) *Sweeper {
	defaults := DefaultSweeperConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		store:  store,
		config: config,
		logger: logger.With("component", "questionnaire.sweeper"),
		now:    time.Now,
	}
}

// Start schedules the sweep and stops it when ctx is cancelled. Each Start
// builds a fresh schedule, so a stopped sweeper can be started again.
func (sw *Sweeper) Start(ctx context.Context) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.running {
		return fmt.Errorf("sweeper already running")
	}

	c := cron.New()
	spec := "@every " + sw.config.Interval.String()
	if _, err := c.AddFunc(spec, sw.Sweep); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	sw.cron = c
	sw.cron.Start()
	sw.running = true

	sw.logger.Info("session sweeper started",
		"interval", sw.config.Interval.String(),
		"timeout", sw.config.Timeout.String(),
	)

	go func() {
		<-ctx.Done()
		sw.Stop()
	}()

	return nil
}

// Sweep expires idle sessions once.
func (sw *Sweeper) Sweep() {
	n := sw.store.ExpireIdle(sw.now(), sw.config.Timeout)
	if n > 0 {
		sw.logger.Info("expired idle sessions", "count", n, "remaining", sw.store.Len())
	} else {
		sw.logger.Debug("session sweep completed, nothing expired")
	}
}

// Stop stops the schedule and waits for a running sweep to finish.
func (sw *Sweeper) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.running {
		<-sw.cron.Stop().Done()
		sw.running = false
		sw.logger.Info("session sweeper stopped")
	}
}

// IsRunning reports whether the sweep is scheduled.
func (sw *Sweeper) IsRunning() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.running
}

// NextRun returns the next scheduled sweep, or nil when not running.
func (sw *Sweeper) NextRun() *time.Time {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if !sw.running {
		return nil
	}
	entries := sw.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
