package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

// EntryLogPruner periodically deletes audit entries older than the
// retention period. A retention of 0 disables pruning.
type EntryLogPruner struct {
	store     store.EntryLogStore
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

type PrunerConfig struct {
	// RetentionDays of audit history to keep. 0 keeps everything.
	RetentionDays int

	// IntervalHours between runs. Defaults to 6.
	IntervalHours int
}

func NewEntryLogPruner(s store.EntryLogStore, cfg PrunerConfig, logger *slog.Logger) *EntryLogPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return newEntryLogPruner(s, time.Duration(cfg.RetentionDays)*24*time.Hour, interval, logger)
}

func newEntryLogPruner(s store.EntryLogStore, retention, interval time.Duration, logger *slog.Logger) *EntryLogPruner {
	return &EntryLogPruner{
		store:     s,
		retention: retention,
		interval:  interval,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start prunes once immediately, then on every interval until ctx is
// cancelled or Stop is called.
func (p *EntryLogPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Info("entry log pruner disabled", slog.Int("retention_days", 0))
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)

	p.logger.Info("entry log pruner started",
		slog.Int("retention_days", int(p.retention.Hours()/24)),
		slog.Duration("interval", p.interval),
	)
}

// Stop signals the loop to exit and waits for it.
func (p *EntryLogPruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *EntryLogPruner) loop(ctx context.Context) {
	defer close(p.done)

	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *EntryLogPruner) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-p.retention)
	deleted, err := p.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("entry log prune failed", slog.String("error", err.Error()))
		return
	}
	if deleted > 0 {
		p.logger.Info("entry log pruned",
			slog.Int64("deleted", deleted),
			slog.Time("cutoff", cutoff),
		)
	}
}
