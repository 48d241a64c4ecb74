// Package cli contains the daemon commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mindstash-io/mindstash/internal/ai"
	"github.com/mindstash-io/mindstash/internal/api/handlers"
	"github.com/mindstash-io/mindstash/internal/config"
	"github.com/mindstash-io/mindstash/internal/database"
	"github.com/mindstash-io/mindstash/internal/repository"
	"github.com/mindstash-io/mindstash/internal/server"
	"github.com/mindstash-io/mindstash/internal/service"
	"github.com/mindstash-io/mindstash/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the mindstash API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	applyPortFlag(cmd.Flags(), cfg)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	itemRepo := repository.NewItemRepository(pool)

	var enhancer service.Enhancer
	aiClient, err := ai.NewFromConfig(ai.Config{
		GeminiAPIKey: cfg.GeminiAPIKey,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
	})
	switch {
	case err == nil:
		log.Printf("AI enhancement enabled (model: %s)", aiClient.Model())
		enhancer = service.NewEnhancementService(aiClient)
	case errors.Is(err, ai.ErrNoCredentials):
		log.Println("no AI credentials configured, falling back to heuristic enhancement")
		enhancer = service.NewEnhancementService(nil)
	default:
		return fmt.Errorf("failed to create AI client: %w", err)
	}

	cache := server.NewDashboardCache()
	itemSvc := service.NewItemService(itemRepo, enhancer, cache)

	router := server.NewRouter(server.RouterConfig{
		ItemHandler:   handlers.NewItemHandler(itemSvc),
		PublicHandler: handlers.NewPublicHandler(itemSvc),
		Cache:         cache,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// applyPortFlag lets an explicitly set --port win over the configured port,
// even when the flag value equals the default.
func applyPortFlag(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetString("port")
	}
}

func runMigrations(databaseURL string) error {
	m, err := migrate.New("file://migrations", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Println("migrations applied")
	return nil
}
