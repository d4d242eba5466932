package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"hotlist/api"
	"hotlist/config"
	"hotlist/handlers"
	"hotlist/internal/store"
	"hotlist/services/enrichment"
	"hotlist/services/metadata"
	"hotlist/services/search"
	"hotlist/services/watchlist"
	"hotlist/utils"
)

func main() {
	settingsPath := flag.String("config", "settings.json", "path to the settings file")
	flag.Parse()

	manager := config.NewManager(*settingsPath)
	cfg, err := manager.Load()
	if err != nil {
		log.Fatalf("[main] load settings: %v", err)
	}
	setupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	persister, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatalf("[main] open store: %v", err)
	}
	defer closeStore()

	meta := metadata.NewService(cfg.Metadata, afero.NewOsFs())
	pipeline := enrichment.NewPipeline(meta,
		enrichment.WithRatingLookup(meta),
		enrichment.WithWorkers(cfg.Metadata.BackfillWorkers),
	)

	engine := watchlist.NewEngine(persister, pipeline, watchlist.WithInsertOrder(cfg.Watchlist.InsertOrder))
	if err := engine.Load(ctx); err != nil {
		log.Fatalf("[main] load watchlist: %v", err)
	}

	flow := watchlist.NewAddFlow(engine, meta.Search,
		search.WithDelay(cfg.Search.Debounce()),
		search.WithMinLength(cfg.Search.MinQueryLength),
	)
	defer flow.Close()

	settingsHandler := handlers.NewSettingsHandler(manager)
	settingsHandler.SetMetadataService(meta)

	router := utils.NewRouter(cfg.Server.AllowedOrigins)
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(api.PINMiddleware(cfg.Server.PINHash))
	handlers.Register(apiRouter, handlers.Routes{
		Watchlist:   handlers.NewWatchlistHandler(engine),
		Friends:     handlers.NewFriendsHandler(engine),
		Preferences: handlers.NewPreferencesHandler(engine),
		Search:      handlers.NewSearchHandler(meta),
		AddFlow:     handlers.NewAddFlowHandler(flow),
		Settings:    settingsHandler,
		Logs:        handlers.NewLogsHandler(afero.NewOsFs(), cfg.Log.File),
		Version:     handlers.NewVersionHandler(),
		SearchLimit: api.RateLimitMiddleware(api.PerMinute(ctx, cfg.Server.SearchRequestsPerMinute)),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[main] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("[main] shutdown signal received")
	case err := <-errCh:
		log.Printf("[main] server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] http shutdown error: %v", err)
	}
}

func setupLogging(cfg config.LogSettings) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cfg.File == "" {
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}))
}

// openStore builds the configured backend and returns a close func for it.
func openStore(cfg config.StorageSettings) (*store.Store, func(), error) {
	var (
		backend store.Backend
		closer  = func() {}
	)
	switch cfg.Backend {
	case config.StorageBackendSQLite:
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err := store.NewSQLiteBackend(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		backend = db
		closer = func() {
			if err := db.Close(); err != nil {
				log.Printf("[main] close database: %v", err)
			}
		}
	default:
		files, err := store.NewFileBackend(afero.NewOsFs(), cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		backend = files
	}

	s, err := store.New(backend)
	if err != nil {
		closer()
		return nil, nil, err
	}
	log.Printf("[main] using %s storage in %s", cfg.Backend, cfg.Dir)
	return s, closer, nil
}
