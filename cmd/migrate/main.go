package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/moonpos/moonpos-backend/pkg/config"
	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/migrate"
)

// gooseCommands run directly against the migrations directory.
var gooseCommands = map[string]bool{
	"up":     true,
	"down":   true,
	"status": true,
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	switch *cmd {
	case "create":
		if *name == "" {
			exitf("missing -name for create\n")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			exitf("failed to create migration: %v\n", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			exitf("migration validation failed: %v\n", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	if cfg.DB.IsSQLite() {
		exitf("goose migrations target postgres; run the api with MOONPOS_AUTO_MIGRATE=true for sqlite\n")
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "migrate ready")

	switch {
	case gooseCommands[*cmd]:
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			exitf("goose %s failed: %v\n", *cmd, err)
		}
	case *cmd == "version":
		if *version == "" {
			exitf("missing -version for version command\n")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			exitf("goose version migrate failed: %v\n", err)
		}
	default:
		exitf("unknown -cmd value: %s\n", *cmd)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
