package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vasuvaghasia/formate/internal/api"
	"github.com/vasuvaghasia/formate/internal/audit"
	"github.com/vasuvaghasia/formate/internal/config"
	"github.com/vasuvaghasia/formate/internal/engine"
	"github.com/vasuvaghasia/formate/internal/styles"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Audit history persistence.
	kv, err := audit.NewRedisKV(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	auditLog := audit.NewLogger(kv, cfg.AuditScope, log)

	// Style templates: built-ins plus any operator-provided directory.
	reg := styles.NewRegistry()
	if cfg.TemplateDir != "" {
		n, err := reg.LoadTemplateDir(cfg.TemplateDir)
		if err != nil {
			log.Error("loading templates failed", "dir", cfg.TemplateDir, "error", err)
			os.Exit(1)
		}
		log.Info("loaded extra templates", "dir", cfg.TemplateDir, "count", n)
	}

	eng := engine.New(reg, auditLog, nil, log, engine.Options{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.MaxQueueSize,
		RunTTL:      cfg.RunTTL,
		StepTimeout: cfg.ApplyStepTimeout,
	})
	eng.Start(ctx)

	srv := api.NewServer(eng, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		eng.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		kv.Close()
	}()

	log.Info("starting formate", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
