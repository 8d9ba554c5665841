package auth

import (
	"github.com/smallbiznis/bellora/internal/auth/repository"
	"github.com/smallbiznis/bellora/internal/auth/service"
	"github.com/smallbiznis/bellora/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
