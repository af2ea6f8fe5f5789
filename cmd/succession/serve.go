package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/succession/internal/api"
	"github.com/mtlprog/succession/internal/config"
	"github.com/mtlprog/succession/internal/database"
	"github.com/mtlprog/succession/internal/export"
	"github.com/mtlprog/succession/internal/legislation"
	"github.com/mtlprog/succession/internal/scenario"
	"github.com/mtlprog/succession/internal/succession"
	"github.com/mtlprog/succession/internal/worker"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API with the legislation and scenario workers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "HTTP port (overrides HTTP_PORT)"},
			&cli.IntFlag{Name: "year", Usage: "legislation year, 0 for the active one (overrides LEGISLATION_YEAR)"},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	ctx, stop := context.WithCancel(c.Context)
	defer stop()

	cfg := config.Load()
	if c.IsSet("port") {
		cfg.HTTPPort = c.String("port")
	}
	if c.IsSet("year") {
		cfg.LegislationYear = c.Int("year")
	}

	// Connect to database
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Run migrations
	migrationsSub, err := migrations()
	if err != nil {
		return fmt.Errorf("failed to create migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Legislation tables: a YAML file overrides the database
	var source legislation.Provider = legislation.NewPgRepository(pool)
	if cfg.LegislationFile != "" {
		if source, err = legislation.LoadFile(cfg.LegislationFile); err != nil {
			return err
		}
		slog.Info("serving legislation from file", "path", cfg.LegislationFile)
	}
	provider := legislation.NewCachedProvider(source, cfg.LegislationCacheTTL)

	calculator := succession.NewService(provider, cfg.LegislationYear)

	// Scenario fixtures
	scenarioRepo := scenario.NewPgRepository(pool)
	scenarioSvc := scenario.NewService(scenarioRepo, calculator)

	// Start workers
	legislationWorker := worker.NewLegislationWorker(provider, cfg.LegislationRefreshInterval)
	go legislationWorker.Run(ctx)

	var hook worker.AfterReplayHook
	if cfg.SheetsEnabled() {
		writer, err := export.NewSheetsWriter(ctx, cfg.GoogleSheetsID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return fmt.Errorf("failed to create sheets writer: %w", err)
		}
		hook = export.NewService(scenarioRepo, writer)
	} else {
		slog.Info("Google Sheets export disabled")
	}
	scenarioWorker := worker.NewScenarioWorker(scenarioSvc, cfg.ScenarioWorkerInterval, hook)
	go scenarioWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, scenario creation endpoint is unprotected")
	}

	// Start HTTP server
	srv := api.NewServer(cfg.HTTPPort, calculator, provider, scenarioSvc, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}
