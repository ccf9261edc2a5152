package landregistry

import (
	"github.com/brickvale/homebuyer/internal/config"
	"github.com/brickvale/homebuyer/internal/landregistry/client"
	"github.com/brickvale/homebuyer/internal/landregistry/domain"
	"github.com/brickvale/homebuyer/internal/landregistry/repository"
	"github.com/brickvale/homebuyer/internal/landregistry/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("landregistry.service",
	fx.Provide(provideSearcher),
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
	fx.Invoke(migrate),
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.SoldPrice{})
}

func provideSearcher(cfg config.Config, log *zap.Logger) service.Searcher {
	return client.NewPPDClient(cfg.LandRegistryURL, log)
}
