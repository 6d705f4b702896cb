package auth

import (
	"github.com/gokulraja-dev/infintree/internal/auth/repository"
	"github.com/gokulraja-dev/infintree/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
