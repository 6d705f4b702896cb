package main

import (
	"github.com/gokulraja-dev/infintree/internal/config"
	"github.com/gokulraja-dev/infintree/internal/migration"
	"github.com/gokulraja-dev/infintree/internal/server"
	"github.com/gokulraja-dev/infintree/pkg/db"
	"github.com/gokulraja-dev/infintree/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		db.Module,

		// HTTP surface and functional domains
		server.Module,
		migration.Module,
	)

	app.Run()
}
