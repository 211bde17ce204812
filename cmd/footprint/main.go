package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/carbonsense/backend/internal/cli"
	"github.com/carbonsense/backend/internal/config"
	"github.com/carbonsense/backend/internal/logging"
)

func main() {
	// Results go to stdout, so logs stay on stderr
	log.Logger = logging.New(os.Getenv("GO_ENV"), os.Stderr)
	cfg := config.Load()
	log.Logger = logging.New(cfg.Env, os.Stderr)
	if !cfg.DotEnvLoaded {
		log.Debug().Msg("No .env file found, using system environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(cfg).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("footprint failed")
		stop()
		os.Exit(1)
	}
}
