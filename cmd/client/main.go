package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"basekit/internal/client/api"
	"basekit/internal/client/auth"
	"basekit/internal/client/cli"
	"basekit/internal/client/iocli"
	"basekit/internal/client/profile"
	"basekit/internal/client/realtime"
	"basekit/internal/client/storage/boltdb"
	"basekit/internal/config"
	"basekit/internal/logger"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const pollInterval = 2 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "", "Backend URL (overrides environment)")
	dbPath := flag.String("db", "", "Path to local database (overrides environment)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	config.LoadEnvFile()
	cfg := config.LoadClient()
	if *serverURL != "" {
		cfg.BackendURL = *serverURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	stdio := iocli.NewStdio()

	args := flag.Args()
	if len(args) == 0 {
		cli.New(stdio, nil, nil).PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := boltdb.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	apiClient := api.NewClient(cfg.BackendURL, cfg.AnonKey)

	authService := auth.NewService(auth.Config{
		API:        apiClient,
		Store:      store,
		ProjectRef: cfg.ProjectRef,
		SiteOrigin: cfg.SiteOrigin,
		BasePath:   cfg.BasePath,
	})
	defer authService.Close()
	authService.Bootstrap(ctx)

	profileService := profile.NewService(profile.Config{
		REST:       apiClient,
		Token:      authService.AccessToken,
		Subscriber: realtime.NewPoller(apiClient, authService.AccessToken, pollInterval),
	})
	defer profileService.Close()

	c := cli.New(stdio, authService, profileService)
	if err := c.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("BaseKit Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
