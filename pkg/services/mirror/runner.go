package mirror

import (
	"context"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

type RunnerProgress struct {
	Run *domain.SyncRun
	Err error
}

// Runner syncs the mirror on a fixed interval until its context is cancelled
type Runner struct {
	syncer   *Syncer
	interval time.Duration
	done     chan struct{}
	progress chan RunnerProgress
}

func NewRunner(syncer *Syncer, interval time.Duration) *Runner {
	return &Runner{
		syncer:   syncer,
		interval: interval,
		done:     make(chan struct{}),
		progress: make(chan RunnerProgress, 16),
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Progress reports every sync. Reports are dropped while the channel is full.
func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	defer close(r.done)
	defer close(r.progress)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		run, err := r.syncer.Sync(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("mirror sync failed")
		}

		select {
		case r.progress <- RunnerProgress{Run: run, Err: err}:
		default:
			logger.Warn().Msg("sync progress dropped")
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("mirror sync stopped")
			return
		case <-ticker.C:
		}
	}
}
