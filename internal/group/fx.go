package group

import (
	"github.com/gokulraja-dev/infintree/internal/group/repository"
	"github.com/gokulraja-dev/infintree/internal/group/service"
	"go.uber.org/fx"
)

var Module = fx.Module("group.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
