package referral

import (
	"github.com/smallbiznis/bellora/internal/referral/repository"
	"github.com/smallbiznis/bellora/internal/referral/service"
	"go.uber.org/fx"
)

var Module = fx.Module("referral",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
