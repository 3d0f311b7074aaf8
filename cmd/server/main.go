package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"translatedtext/internal/config"
	"translatedtext/internal/domain"
	"translatedtext/internal/handler"
	"translatedtext/internal/hub"
	"translatedtext/internal/logger"
	"translatedtext/internal/metrics"
	"translatedtext/internal/repository"
	"translatedtext/internal/repository/postgres"
	"translatedtext/internal/repository/sqlite"
	"translatedtext/internal/service"
	"translatedtext/internal/watcher"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, foundPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = *dbPath
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if err := run(cfg, foundPath, log); err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func run(cfg *config.Config, configPath string, log *logger.Logger) error {
	source := configPath
	if source == "" {
		source = "(defaults)"
	}
	log.Info().Str("config", source).Msg("Starting translatedtext server")
	log.Debug().Msg(cfg.Summary())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("driver", cfg.Database.Driver).Msg("Database opened")

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	accessor := repository.NewInstrumented(store, m, log)

	// Connect event bus to SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New(log)
	go sseHub.Run(ctx)
	sseHub.Relay(ctx, eventBus)

	languages := service.NewReloadableLanguages(languageModel(cfg.Languages))
	if configPath != "" {
		go watchLanguages(ctx, configPath, languages, log)
	}
	catalog := service.NewCatalog(accessor, languages, attributeDefs(cfg.Attributes),
		service.WithEventBus(eventBus),
		service.WithMetrics(m),
		service.WithLogger(log.With("attribute")),
	)

	// Setup routes
	mux := http.NewServeMux()
	handler.NewAttributeHandler(catalog, languages, log).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /health", handler.Health(store, log))
	if m != nil {
		mux.Handle("GET "+cfg.Metrics.Path, m.Handler())
	}

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover(log),
		handler.CORS,
		handler.Logger(log),
		m.InstrumentHandler,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Server stopped")
	return nil
}

// watchLanguages reloads the language context when the config file changes.
// Other sections need a restart to take effect.
func watchLanguages(ctx context.Context, path string, languages *service.ReloadableLanguages, log *logger.Logger) {
	w := watcher.New(path, func() {
		cfg, _, err := config.LoadFromPath(path)
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid config change")
			return
		}
		languages.Store(languageModel(cfg.Languages))
		log.Info().
			Str("active", cfg.Languages.Active).
			Str("fallback", cfg.Languages.Fallback).
			Msg("Languages reloaded")
	}, log)

	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("Config watcher stopped")
	}
}

// openStore connects the configured backend
func openStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		repo, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		repo, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
}

func languageModel(cfg config.LanguagesConfig) service.StaticLanguages {
	available := make([]domain.LanguageCode, 0, len(cfg.Available))
	for _, code := range cfg.Available {
		available = append(available, domain.LanguageCode(code))
	}
	return service.StaticLanguages{
		Active:    domain.LanguageCode(cfg.Active),
		Fallback:  domain.LanguageCode(cfg.Fallback),
		Available: available,
	}
}

func attributeDefs(attrs []config.AttributeConfig) []service.AttributeDef {
	defs := make([]service.AttributeDef, 0, len(attrs))
	for _, att := range attrs {
		defs = append(defs, service.AttributeDef{ID: domain.AttributeID(att.ID), Name: att.Name})
	}
	return defs
}
