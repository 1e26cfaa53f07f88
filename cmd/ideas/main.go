package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iudanet/ideacapsule/internal/cli"
	"github.com/iudanet/ideacapsule/internal/cli/iocli"
	"github.com/iudanet/ideacapsule/internal/clipboard"
	"github.com/iudanet/ideacapsule/internal/config"
	"github.com/iudanet/ideacapsule/internal/events"
	"github.com/iudanet/ideacapsule/internal/ingest"
	"github.com/iudanet/ideacapsule/internal/metrics"
	"github.com/iudanet/ideacapsule/internal/storage/boltdb"
	"github.com/iudanet/ideacapsule/internal/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to config file")
	dbPath := flag.String("db", "", "Path to idea database")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(iocli.NewStdio())
		os.Exit(1)
	}

	command := args[0]
	if command == "version" {
		printVersion()
		os.Exit(0)
	}

	if err := run(*configPath, *dbPath, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			cli.PrintUsage(iocli.NewStdio())
		}
		os.Exit(1)
	}
}

func run(configPath, dbPath, command string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	// Ctrl+C останавливает watch и прерывает долгие запросы
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeOpts := []sqlite.Option{sqlite.WithLogger(logger), sqlite.WithPalette(cfg.Colors)}
	if cfg.DisableFTS {
		storeOpts = append(storeOpts, sqlite.WithoutFTS())
	}

	// Открываем SQLite storage
	store, err := sqlite.New(ctx, cfg.DBPath, storeOpts...)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// Открываем BoltDB для настроек интерфейса
	settings, err := boltdb.New(ctx, cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	defer func() {
		if err := settings.Close(); err != nil {
			logger.Error("failed to close settings", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	bus := events.New(logger)
	defer bus.Close()

	svc := ingest.NewService(store,
		ingest.WithBus(bus),
		ingest.WithSettings(settings),
		ingest.WithMetrics(m),
		ingest.WithLogger(logger),
		ingest.WithPalette(cfg.Colors),
		ingest.WithWatcher(clipboard.NewWatcher(cfg.DebounceWindow, nil)),
	)

	c := cli.New(iocli.NewStdio(), svc, cfg,
		cli.WithBus(bus),
		cli.WithMetrics(m, reg),
		cli.WithLogger(logger),
	)

	return c.Run(ctx, command, args)
}

func printVersion() {
	fmt.Printf("Ideas\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
