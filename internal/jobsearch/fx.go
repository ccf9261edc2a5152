package jobsearch

import (
	"github.com/brickvale/homebuyer/internal/config"
	"github.com/brickvale/homebuyer/internal/jobsearch/client"
	"github.com/brickvale/homebuyer/internal/jobsearch/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("jobsearch.service",
	fx.Provide(provideAdzuna),
	fx.Provide(provideReed),
	fx.Provide(service.NewService),
)

func provideAdzuna(cfg config.Config, log *zap.Logger) service.AdzunaPortal {
	return client.NewAdzunaClient(cfg.AdzunaURL, cfg.AdzunaAppID, cfg.AdzunaAppKey, log)
}

func provideReed(cfg config.Config, log *zap.Logger) service.ReedPortal {
	return client.NewReedClient(cfg.ReedURL, cfg.ReedAPIKey, log)
}
