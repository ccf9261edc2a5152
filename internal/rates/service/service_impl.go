package service

import (
	"context"
	"strconv"

	"github.com/brickvale/homebuyer/internal/clock"
	"github.com/brickvale/homebuyer/internal/config"
	"github.com/brickvale/homebuyer/internal/observability/metrics"
	"github.com/brickvale/homebuyer/internal/rates/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const cacheKey = "rates:boe_base"

// Fetcher fetches the latest rate from the live feed.
type Fetcher interface {
	LatestRate(ctx context.Context) (float64, error)
}

type Service struct {
	log     *zap.Logger
	cfg     config.Config
	fetcher Fetcher
	cache   *redis.Client
	metrics *metrics.FeedMetrics
	clock   clock.Clock
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	Fetcher Fetcher
	Cache   *redis.Client `optional:"true"`
	Metrics *metrics.FeedMetrics
	Clock   clock.Clock
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:     p.Log.Named("rates.service"),
		cfg:     p.Cfg,
		fetcher: p.Fetcher,
		cache:   p.Cache,
		metrics: p.Metrics,
		clock:   p.Clock,
	}
}

func (s *Service) BaseRate(ctx context.Context) domain.Rate {
	now := s.clock.Now()

	if rate, ok := s.cached(ctx); ok {
		return domain.Rate{Value: rate, Source: domain.SourceCache, FetchedAt: now}
	}

	rate, err := s.Refresh(ctx)
	if err != nil {
		s.log.Warn("base rate feed unavailable, using fallback",
			zap.Float64("fallback", s.cfg.BaseRateFallback),
			zap.Error(err))
		return domain.Rate{Value: s.cfg.BaseRateFallback, Source: domain.SourceFallback, FetchedAt: now}
	}
	return domain.Rate{Value: rate, Source: domain.SourceFeed, FetchedAt: now}
}

func (s *Service) Refresh(ctx context.Context) (float64, error) {
	rate, err := s.fetcher.LatestRate(ctx)
	if err != nil {
		s.metrics.RecordFetch("boe_base_rate", metrics.OutcomeError)
		return 0, err
	}
	s.metrics.RecordFetch("boe_base_rate", metrics.OutcomeOK)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, strconv.FormatFloat(rate, 'f', -1, 64), s.cfg.BaseRateCacheTTL).Err(); err != nil {
			s.log.Warn("base rate cache write failed", zap.Error(err))
		}
	}

	s.log.Info("base rate refreshed", zap.Float64("rate", rate))
	return rate, nil
}

func (s *Service) cached(ctx context.Context) (float64, bool) {
	if s.cache == nil {
		return 0, false
	}
	v, err := s.cache.Get(ctx, cacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("base rate cache read failed", zap.Error(err))
		}
		return 0, false
	}
	rate, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return rate, true
}
