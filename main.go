package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deckgen/content"
	"deckgen/database"
	"deckgen/generate"
	"deckgen/logger"
	"deckgen/render"
	"deckgen/style"
	"deckgen/template"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLog := logger.NewLogger()
	defer appLog.Close()

	configService := NewConfigService(appLog.Log)
	if err := configService.Initialize(ctx); err != nil {
		return err
	}
	cfg, err := configService.GetConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}
	if err := appLog.Init(cfg.LogDir); err != nil {
		return err
	}

	db, err := database.InitDB(cfg.DataDir)
	if err != nil {
		return WrapError("main", "InitDB", err)
	}
	defer db.Close()

	jobStore := database.NewJobService(db)
	templateStore := database.NewTemplateService(db)

	templateService := NewTemplateFacadeService(templateStore, appLog.Log)

	var logos style.LogoResolver
	if cfg.LogoServiceURL != "" {
		logos = template.NewLogoClient(cfg.LogoServiceURL, appLog.Log)
	}

	var defaults content.GenerateOptions
	if cfg.Generation != nil {
		defaults = *cfg.Generation
	}
	orchestrator := generate.NewOrchestrator(
		templateService.Provider(),
		logos,
		render.NewService(appLog.Log),
		jobStore,
		defaults,
		cfg.WorkerCount,
		appLog.Log,
	)
	generationService := NewGenerationFacadeService(orchestrator, jobStore, appLog.Log)

	registry := NewServiceRegistry(ctx, appLog.Log)
	if err := registry.RegisterCritical(configService); err != nil {
		return err
	}
	if err := registry.RegisterCritical(templateService); err != nil {
		return err
	}
	if err := registry.RegisterCritical(generationService); err != nil {
		return err
	}
	if err := registry.InitializeAll(); err != nil {
		return err
	}
	defer registry.ShutdownAll()

	logLevel := slog.LevelInfo
	if cfg.DetailedLog {
		logLevel = slog.LevelDebug
	}
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	server := NewServer(generationService, templateService, cfg.Server.RateLimitPerMinute, slogger)

	httpServer := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Logf("listening on %s", cfg.Server.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return WrapError("main", "ListenAndServe", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return WrapError("main", "Shutdown", err)
	}
	return nil
}
