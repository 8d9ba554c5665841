package admin

import (
	"github.com/smallbiznis/bellora/internal/admin/repository"
	"github.com/smallbiznis/bellora/internal/admin/service"
	"go.uber.org/fx"
)

var Module = fx.Module("admin",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
