package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/katakuxiko/pdfchat/internal/api"
	"github.com/katakuxiko/pdfchat/internal/config"
	"github.com/katakuxiko/pdfchat/internal/service"
	"github.com/katakuxiko/pdfchat/internal/util"
)

func main() {
	cfgPath := flag.String("config", "pdfchat.yml", "config file path")
	flag.Parse()

	// config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	log := util.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	// backend
	backend := service.NewBackend(cfg.Backend, log)
	if cfg.Backend.URL == "" {
		log.Warn("backend.url is empty; uploads are stored but not indexed")
	}

	// api
	app := api.NewApp(cfg, backend, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	log.Info("server started", "addr", cfg.Server.Addr, "backend", cfg.Backend.URL)
	if err := app.Listen(cfg.Server.Addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
