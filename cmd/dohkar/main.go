package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dohkar/dohkar-api/internal/config"
	"github.com/dohkar/dohkar-api/internal/observability/logger"

	_ "github.com/dohkar/dohkar-api/internal/store/memory"
	_ "github.com/dohkar/dohkar-api/internal/store/pg"
)

// cli guarda lo que comparten todos los subcomandos.
type cli struct {
	configPath string
	cfg        *config.Config
}

func (c *cli) load() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	return nil
}

func newRootCmd() *cobra.Command {
	c := &cli{configPath: os.Getenv("CONFIG_PATH")}

	root := &cobra.Command{
		Use:           "dohkar",
		Short:         "API de Dohkar: servidor, migraciones y administración",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "YAML de configuración (env CONFIG_PATH)")

	root.AddCommand(
		newServeCmd(c),
		newMigrateCmd(c),
		newAdminCmd(c),
	)
	return root
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
