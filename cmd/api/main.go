package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/catalog/internal/api"
	"github.com/your-org/catalog/internal/api/ws"
	"github.com/your-org/catalog/internal/auth"
	"github.com/your-org/catalog/internal/config"
	"github.com/your-org/catalog/internal/gallery"
	"github.com/your-org/catalog/internal/imaging"
	"github.com/your-org/catalog/internal/observability"
	"github.com/your-org/catalog/internal/ocr"
	"github.com/your-org/catalog/internal/people"
	"github.com/your-org/catalog/internal/queue"
	"github.com/your-org/catalog/internal/storage"
	"github.com/your-org/catalog/pkg/dto"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting catalog API service", "port", cfg.Server.Port)

	// Local fallback store is always present.
	local, err := storage.NewLocalStore(cfg.Local)
	if err != nil {
		slog.Error("create local store", "error", err)
		os.Exit(1)
	}

	compressor := imaging.NewCompressor(cfg.Image)
	recompressor := &imaging.Compressor{
		MaxWidth:  cfg.Image.MaxWidth / 2,
		MaxHeight: cfg.Image.MaxHeight / 2,
		Quality:   cfg.Image.JPEGQuality / 2,
	}
	local.Recompress = recompressor.Compress

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	local.OnReset = func() {
		hub.BroadcastEvent(&dto.WSEvent{Type: dto.EventStorageReset})
	}

	// Store selection: decided once at startup, never revisited at runtime.
	// Without database config the service is local-only; a configured
	// database that fails to connect degrades to local-only with a warning.
	var store storage.PeopleStore = local
	remote := false
	if cfg.Database.Configured() {
		db, err := storage.NewPostgresStore(cfg.Database)
		if err != nil {
			slog.Warn("connect to postgres, running local-only", "error", err)
		} else {
			defer db.Close()
			store = db
			remote = true
		}
	} else {
		slog.Info("no database configured, running local-only")
	}

	// Optional photo archive for uncompressed originals.
	var archive *storage.ArchiveStore
	if cfg.Archive.Configured() {
		archive, err = storage.NewArchiveStore(cfg.Archive)
		if err != nil {
			slog.Warn("connect to archive, originals disabled", "error", err)
			archive = nil
		} else if err := archive.EnsureBucket(context.Background()); err != nil {
			slog.Warn("ensure archive bucket", "error", err)
		}
	}

	// Optional change feed.
	var producer *queue.Producer
	if cfg.NATS.URL != "" {
		producer, err = queue.NewProducer(cfg.NATS.URL)
		if err != nil {
			slog.Warn("connect to nats, change feed disabled", "error", err)
			producer = nil
		} else {
			defer producer.Close()
			if err := producer.EnsureStream(context.Background()); err != nil {
				slog.Warn("ensure nats stream", "error", err)
			}
		}
	}

	coord := people.NewCoordinator(store, local, people.NewRepository(), remote)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	records, err := coord.Load(loadCtx)
	loadCancel()
	if err != nil {
		slog.Error("load people", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "records", len(records), "remote", remote)

	engine := ocr.NewEngine(cfg.OCR)
	defer engine.Terminate()

	router := api.NewRouter(api.RouterConfig{
		APIKey:      cfg.Server.APIKey,
		Coordinator: coord,
		Local:       local,
		Store:       store,
		Gallery:     gallery.New(),
		Compressor:  compressor,
		Engine:      engine,
		Sessions:    auth.NewSessions(local),
		Archive:     archive,
		Producer:    producer,
		Hub:         hub,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}
