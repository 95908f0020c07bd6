package migrate

import (
	"context"
	"fmt"

	"github.com/moonpos/moonpos-backend/pkg/config"
	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/logger"
)

// MaybeRunDev applies the schema on startup when the auto-migrate flag is set.
// Postgres runs the embedded goose migrations, and only in dev. SQLite has no
// goose history and is brought up with gorm AutoMigrate in any env.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || client == nil || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.DB.IsSQLite() {
		logg.Info(logg.WithField(ctx, "driver", db.DriverSQLite), "auto-migrating sqlite schema")
		if err := client.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("sqlite auto-migrate: %w", err)
		}
		return nil
	}

	if !cfg.App.IsDev() {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": embeddedDir})
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := RunEmbedded(ctx, sqlDB, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
