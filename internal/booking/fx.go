package booking

import (
	"github.com/smallbiznis/bellora/internal/booking/repository"
	"github.com/smallbiznis/bellora/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
