// Package scheduler runs the background feed refreshes: the Bank of
// England base rate and the sold-price cache for watched areas.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brickvale/homebuyer/internal/clock"
	"github.com/brickvale/homebuyer/internal/config"
	landregistrydomain "github.com/brickvale/homebuyer/internal/landregistry/domain"
	"github.com/brickvale/homebuyer/internal/observability/metrics"
	ratesdomain "github.com/brickvale/homebuyer/internal/rates/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log             *zap.Logger
	Config          config.Config
	RatesSvc        ratesdomain.Service
	LandRegistrySvc landregistrydomain.Service
	Metrics         *metrics.SchedulerMetrics
	Clock           clock.Clock
}

type Scheduler struct {
	log             *zap.Logger
	cfg             config.Config
	ratesSvc        ratesdomain.Service
	landRegistrySvc landregistrydomain.Service
	metrics         *metrics.SchedulerMetrics
	clock           clock.Clock
	cron            *cron.Cron
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.RatesSvc == nil || p.LandRegistrySvc == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:             p.Log.Named("scheduler"),
		cfg:             p.Config,
		ratesSvc:        p.RatesSvc,
		landRegistrySvc: p.LandRegistrySvc,
		metrics:         p.Metrics,
		clock:           p.Clock,
	}, nil
}

// runJob wraps a job with a deadline and metrics. A deadline hit is a
// soft timeout: it counts but does not fail the run.
func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	start := s.clock.Now()
	s.metrics.IncJobRun(name)

	err := fn(ctx)
	elapsed := time.Since(start)
	if err == nil {
		s.log.Debug("job finished", zap.String("job", name), zap.Duration("elapsed", elapsed))
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.metrics.IncJobTimeout(name)
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", jobTimeout),
			zap.Error(err),
		)
		return nil
	}

	s.metrics.IncJobError(name, "error")
	return fmt.Errorf("%s: %w", name, err)
}

// RefreshRateJob re-fetches the Bank of England base rate into the
// rate cache.
func (s *Scheduler) RefreshRateJob(ctx context.Context) error {
	rate, err := s.ratesSvc.Refresh(ctx)
	if err != nil {
		return err
	}
	s.log.Info("base rate refreshed", zap.Float64("rate", rate))
	return nil
}

// RefreshSoldPricesJob re-fetches the sold-price cache for every
// watched area. One failing area does not stop the rest.
func (s *Scheduler) RefreshSoldPricesJob(ctx context.Context) error {
	var jobErr error
	for _, area := range s.cfg.WatchedAreas {
		if ctx.Err() != nil {
			return errors.Join(jobErr, ctx.Err())
		}
		n, err := s.landRegistrySvc.RefreshArea(ctx, area)
		if err != nil {
			jobErr = errors.Join(jobErr, fmt.Errorf("area %s: %w", area, err))
			continue
		}
		s.log.Info("sold prices refreshed", zap.String("area", area), zap.Int("rows", n))
	}
	return jobErr
}

// Start registers the cron entries and begins running them. Jobs run
// against a background context so an HTTP shutdown does not cancel an
// in-flight refresh.
func (s *Scheduler) Start() error {
	c := cron.New()

	if _, err := c.AddFunc(s.cfg.RateRefreshSpec, func() {
		if err := s.runJob(context.Background(), "refresh_base_rate", s.RefreshRateJob); err != nil {
			s.log.Warn("scheduled rate refresh failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("register rate refresh: %w", err)
	}

	if len(s.cfg.WatchedAreas) > 0 {
		if _, err := c.AddFunc(s.cfg.SoldPriceRefreshSpec, func() {
			if err := s.runJob(context.Background(), "refresh_sold_prices", s.RefreshSoldPricesJob); err != nil {
				s.log.Warn("scheduled sold price refresh failed", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("register sold price refresh: %w", err)
		}
	}

	c.Start()
	s.cron = c
	s.log.Info("scheduler started",
		zap.String("rate_spec", s.cfg.RateRefreshSpec),
		zap.String("sold_price_spec", s.cfg.SoldPriceRefreshSpec),
		zap.Strings("watched_areas", s.cfg.WatchedAreas),
	)
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
