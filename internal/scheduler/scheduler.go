package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"newsdeck/internal/auth"
	"newsdeck/internal/domain"
	"newsdeck/internal/ingest"
)

const (
	hourlyRefreshSpec     = "0 * * * *"
	timezone              = "UTC"
	timezoneOffsetSeconds = 0
	sweepTimeout          = 15 * time.Minute
)

type SourceLister interface {
	ListAllActiveSources(ctx context.Context) ([]domain.Source, error)
}

type Ingester interface {
	Ingest(ctx context.Context, sess auth.Session, sourceID string) ingest.Result
}

// Scheduler periodically refreshes every active source. Sources are
// processed strictly sequentially, one ingestion completing before the
// next begins.
type Scheduler struct {
	ctx      context.Context
	cron     *cron.Cron
	store    SourceLister
	pipeline Ingester
	log      *slog.Logger
}

func New(ctx context.Context, store SourceLister, pipeline Ingester, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(timezone, timezoneOffsetSeconds)))

	return &Scheduler{
		ctx:      ctx,
		cron:     c,
		store:    store,
		pipeline: pipeline,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(hourlyRefreshSpec, s.sweep); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	sources, err := s.store.ListAllActiveSources(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list active sources",
			"error", err)

		return
	}

	for _, src := range sources {
		if ctx.Err() != nil {
			s.log.InfoContext(ctx, "Refresh sweep context is done",
				"error", ctx.Err())

			return
		}

		res := s.pipeline.Ingest(ctx, auth.Session{UserID: src.UserID}, src.ID)
		if res.Status == ingest.StatusFailed {
			s.log.ErrorContext(ctx, "Failed to refresh source",
				"error", res.Err,
				"sourceID", src.ID,
				"userID", src.UserID)
		}
	}

	s.log.InfoContext(ctx, "Refresh sweep finished",
		"sourceCount", len(sources))
}
