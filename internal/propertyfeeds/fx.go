package propertyfeeds

import (
	"github.com/brickvale/homebuyer/internal/config"
	"github.com/brickvale/homebuyer/internal/propertyfeeds/client"
	"github.com/brickvale/homebuyer/internal/propertyfeeds/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("propertyfeeds.service",
	fx.Provide(provideZoopla),
	fx.Provide(provideNestoria),
	fx.Provide(provideRSS),
	fx.Provide(service.NewService),
)

func provideZoopla(cfg config.Config, log *zap.Logger) service.ZooplaPortal {
	return client.NewZooplaClient(cfg.ZooplaURL, cfg.ZooplaAPIKey, log)
}

func provideNestoria(cfg config.Config, log *zap.Logger) service.NestoriaPortal {
	return client.NewNestoriaClient(cfg.NestoriaURL, log)
}

func provideRSS(log *zap.Logger) service.RSSFetcher {
	return client.NewRightmoveClient(log)
}
