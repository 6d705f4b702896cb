package document

import (
	"github.com/gokulraja-dev/infintree/internal/document/repository"
	"github.com/gokulraja-dev/infintree/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document",
	fx.Provide(
		repository.NewRepository,
		service.New,
	),
)
