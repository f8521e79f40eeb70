package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sintrom-ocr/internal/adapters/ocr/docintel"
	pg "sintrom-ocr/internal/adapters/storage/postgres"
	"sintrom-ocr/internal/domain/extraction"
	"sintrom-ocr/internal/platform/config"
	"sintrom-ocr/internal/platform/logger"
	"sintrom-ocr/internal/ports/ocr"
	"sintrom-ocr/internal/router"
)

// @title        Sintrom OCR API
// @version      1.0.0
// @description  Extracción, normalización e validación de informes de Sintrom con Azure Document Intelligence.
// @BasePath     /
func main() {
	cfg := config.Load()

	log, err := logger.NewFromEnv()
	if err != nil {
		log = logger.Nop()
	}
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	client, err := docintel.NewClient(docintel.Config{
		Endpoint:     cfg.DocIntel.Endpoint,
		APIKey:       cfg.DocIntel.APIKey,
		ModelID:      cfg.DocIntel.ModelID,
		APIVersion:   cfg.DocIntel.APIVersion,
		Timeout:      cfg.DocIntel.Timeout,
		PollInterval: cfg.DocIntel.PollInterval,
		MaxPolls:     cfg.DocIntel.MaxPolls,
		Retries:      cfg.DocIntel.Retries,
	}, log)
	if err != nil {
		log.Error("document intelligence client", map[string]any{"error": err})
		os.Exit(1)
	}

	// sin credenciales /extraccion/ responde not_configured; /extraccion/resultado sigue disponible
	var analyzer ocr.Analyzer
	if client.IsConfigured() {
		analyzer = client
	} else {
		log.Warn("document intelligence not configured", map[string]any{"env": "DOC_INTEL_ENDPOINT, DOC_INTEL_KEY"})
	}

	rules := extraction.DefaultRules()
	rules.MinGlobalConfidence = cfg.Extraction.MinGlobalConfidence
	rules.MinINRConfidence = cfg.Extraction.MinINRConfidence
	rules.INRMin = cfg.Extraction.INRMin
	rules.INRMax = cfg.Extraction.INRMax

	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = pg.Open(cfg.Database.DSN)
		if err != nil {
			log.Warn("postgres unavailable, using in-memory audit", map[string]any{"error": err})
			db = nil
		} else {
			defer db.Close()
		}
	}

	r := router.NewRouter(router.Options{
		Logger:         log,
		Analyzer:       analyzer,
		Decoder:        client,
		Engine:         extraction.NewEngine(rules, client.ModelID(), log),
		DB:             db,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Server.Addr, "model": client.ModelID()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]any{"error": err})
	}
	log.Info("server stopped", nil)
}
