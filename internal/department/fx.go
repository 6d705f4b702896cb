package department

import (
	"github.com/gokulraja-dev/infintree/internal/department/repository"
	"github.com/gokulraja-dev/infintree/internal/department/service"
	"go.uber.org/fx"
)

var Module = fx.Module("department.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
