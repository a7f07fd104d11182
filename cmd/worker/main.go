package main

import (
	"context"
	"os"
	"os/signal"
	"simaru/config"
	"simaru/di"
	"simaru/shared/logger"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	if err := worker.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Photo cleanup worker stopped")
	}

	log.Info().Msg("Photo cleanup worker shut down")
}
