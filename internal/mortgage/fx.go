package mortgage

import (
	"github.com/brickvale/homebuyer/internal/mortgage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mortgage.service",
	fx.Provide(service.NewService),
)
