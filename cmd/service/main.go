package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dohkar/dohkar-api/internal/app"
	"github.com/dohkar/dohkar-api/internal/config"
	"github.com/dohkar/dohkar-api/internal/observability/logger"

	// registran los drivers de store.Open
	_ "github.com/dohkar/dohkar-api/internal/store/memory"
	_ "github.com/dohkar/dohkar-api/internal/store/pg"
)

func main() {
	// .env es opcional; en producción todo viene del entorno
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML config (env CONFIG_PATH)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		logger.L().Fatal("server exited", logger.Err(err))
	}
}
