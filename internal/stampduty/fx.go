package stampduty

import (
	"github.com/brickvale/homebuyer/internal/stampduty/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stampduty.service",
	fx.Provide(service.NewService),
)
