package rates

import (
	"github.com/brickvale/homebuyer/internal/config"
	"github.com/brickvale/homebuyer/internal/rates/client"
	"github.com/brickvale/homebuyer/internal/rates/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rates.service",
	fx.Provide(provideFetcher),
	fx.Provide(provideCache),
	fx.Provide(service.NewService),
)

func provideFetcher(cfg config.Config, log *zap.Logger) service.Fetcher {
	return client.NewBoEClient(cfg.BaseRateURL, log)
}

// provideCache returns nil when no Redis address is configured; the
// service treats a nil cache as a miss on every lookup.
func provideCache(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
