package migration

import (
	"context"

	authdomain "github.com/gokulraja-dev/infintree/internal/auth/domain"
	"github.com/gokulraja-dev/infintree/internal/config"
	departmentdomain "github.com/gokulraja-dev/infintree/internal/department/domain"
	documentdomain "github.com/gokulraja-dev/infintree/internal/document/domain"
	groupdomain "github.com/gokulraja-dev/infintree/internal/group/domain"
	iamdomain "github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/gokulraja-dev/infintree/internal/iam/loader"
	"github.com/gokulraja-dev/infintree/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module runs schema migration and startup seeding, and optionally starts
// the policy file watcher.
var Module = fx.Module("migrations",
	fx.Provide(seed.New),
	fx.Invoke(func(conn *gorm.DB, seeder *seed.Seeder) error {
		if err := AutoMigrate(conn); err != nil {
			return err
		}
		return seeder.Run(context.Background())
	}),
	fx.Invoke(startPolicyWatcher),
)

// AutoMigrate keeps the schema aligned across the supported dialects.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&authdomain.User{},
		&iamdomain.Permission{},
		&iamdomain.Role{},
		&iamdomain.RolePermission{},
		&iamdomain.UserRole{},
		&departmentdomain.Department{},
		&groupdomain.Group{},
		&groupdomain.GroupDepartment{},
		&documentdomain.Document{},
		&documentdomain.DocumentNode{},
	)
}

func startPolicyWatcher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, policies *loader.Loader) {
	if !cfg.WatchPolicyFile {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := policies.Watch(ctx, cfg.PolicyFile); err != nil {
				cancel()
				return err
			}
			log.Info("policy file watcher started", zap.String("path", cfg.PolicyFile))
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
