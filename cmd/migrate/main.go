// Package main provides a CLI for applying database migrations.
// Usage: migrate [-config path] up|down|status|reset
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inventory/internal/config"
	"inventory/internal/infrastructure/storage/postgres"
	"inventory/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $APP_CONFIG)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}
	command := flag.Arg(0)

	switch command {
	case "up", "down", "status", "reset":
	case "help":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		fmt.Fprintln(os.Stderr, "migrations need storage.driver=postgres")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(ctx, cfg.Postgres.DSN, command); err != nil {
		log.Errorw("migration failed", "command", command, "error", err)
		stop()
		os.Exit(1)
	}
	log.Infow("migration finished", "command", command)
}

func printUsage() {
	fmt.Println(`Inventory Migration CLI

Usage:
  migrate [-config path] <command>

Commands:
  up       Apply all pending migrations
  down     Roll back the latest migration
  status   Show applied and pending migrations
  reset    Roll back all migrations
  help     Show this help

Environment Variables:
  APP_CONFIG             Config file used when -config is omitted
  APP_POSTGRES_DSN       Overrides postgres.dsn`)
}
