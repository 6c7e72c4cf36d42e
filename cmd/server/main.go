package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hinote/backend/config"
	httpDelivery "github.com/hinote/backend/internal/delivery/http"
	"github.com/hinote/backend/internal/domain"
	"github.com/hinote/backend/internal/infrastructure/groq"
	"github.com/hinote/backend/internal/infrastructure/store"
	"github.com/hinote/backend/internal/logger"
	"github.com/hinote/backend/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// catalogStore is a catalog repository that holds resources until closed
type catalogStore interface {
	domain.CatalogRepository
	Close()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Serve the Hi Note order extraction API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configFile)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "path to a config file (default: search ./config.yaml, ./config, /etc/hinote)")

	return cmd
}

func serve(configFile string) error {
	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Server.Environment,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	log.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"catalog_ttl": cfg.Catalog.TTL.String(),
	}).Info("Starting Hi Note backend v1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	catalogs, err := newCatalogStore(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	defer catalogs.Close()
	log.WithField("store", cfg.Catalog.Store).Info("Catalog store ready")

	// Without an API key every extraction goes through the deterministic fallback
	var client domain.CompletionClient
	if cfg.LLM.Enabled() {
		groqClient := groq.NewClient(groq.Options{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Timeout:           cfg.LLM.Timeout,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
			MaxRetries:        cfg.LLM.MaxRetries,
			Logger:            log,
		})
		if cfg.LLM.Debug {
			groqClient.SetDebug(true)
		}
		client = groqClient

		log.WithFields(logrus.Fields{
			"base_url":    cfg.LLM.BaseURL,
			"model":       cfg.LLM.Model,
			"max_retries": cfg.LLM.MaxRetries,
		}).Info("LLM extraction enabled")
	} else {
		log.Warn("LLM API key not configured (set HINOTE_LLM_API_KEY); using fallback extraction only")
	}

	// Initialize usecase layer
	extractor := usecase.NewRemoteExtractor(client, usecase.RemoteExtractorConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, log)

	service := usecase.NewExtractionService(extractor, catalogs, usecase.ExtractionServiceConfig{
		CatalogTTL: cfg.Catalog.TTL,
	}, log)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(service, log)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return runServer(ctx, server, log)
}

// runServer serves until ctx is done, then shuts down gracefully. A listen
// failure such as a port already in use is returned as an error.
func runServer(ctx context.Context, server *http.Server, log logrus.FieldLogger) error {
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newCatalogStore(ctx context.Context, cfg config.CatalogConfig) (catalogStore, error) {
	switch cfg.Store {
	case "redis":
		redisStore, err := store.NewRedisCatalogStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	default:
		return store.NewMemoryCatalogStore(cfg.CleanupInterval), nil
	}
}
