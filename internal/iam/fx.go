package iam

import (
	"github.com/gokulraja-dev/infintree/internal/iam/loader"
	"github.com/gokulraja-dev/infintree/internal/iam/repository"
	"github.com/gokulraja-dev/infintree/internal/iam/service"
	"go.uber.org/fx"
)

var Module = fx.Module("iam.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
	fx.Provide(loader.New),
)
