package user

import (
	"github.com/smallbiznis/bellora/internal/user/repository"
	"github.com/smallbiznis/bellora/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
