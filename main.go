package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"vapeur/catalog"
	"vapeur/config"
	httpserver "vapeur/http"
	"vapeur/store"
	"vapeur/web"
)

var openStore = func(path string) (store.Store, error) {
	return store.NewSQLiteStore(path)
}

func main() {
	log := logrus.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	configureLogger(log, cfg)
	log.WithFields(logrus.Fields{
		"port":    cfg.ServerPort,
		"db_path": cfg.DBPath,
		"csrf":    len(cfg.CSRFKey) > 0,
	}).Info("Configuration loaded")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := run(cfg, log, sigChan); err != nil {
		log.Fatal(err)
	}
	log.Info("Server stopped")
}

// run serves until stop fires or the listener fails. The store is closed on every return path.
func run(cfg *config.Config, log *logrus.Logger, stop <-chan os.Signal) error {
	db, err := openStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warnf("Failed to close database: %v", err)
		}
	}()
	log.Info("Database initialized successfully")

	cat := catalog.New(db, log)

	// A partially seeded catalog is not served.
	if err := cat.SeedGenres(context.Background()); err != nil {
		return fmt.Errorf("failed to seed default genres: %w", err)
	}

	renderer, err := httpserver.NewRenderer(web.Templates)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	server := httpserver.NewServer(cat, renderer, log, httpserver.Options{
		PublicDir:         cfg.PublicDir,
		CSRFKey:           cfg.CSRFKey,
		SecureCookies:     cfg.SecureCookies,
		FormRatePerMinute: cfg.FormRatePerMinute,
	})
	srv := server.GetHTTPServer(cfg.ServerPort)

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Server listening on http://localhost%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Server forced to shutdown: %v", err)
	}
	return nil
}

func configureLogger(log *logrus.Logger, cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}
