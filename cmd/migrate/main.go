package main

import (
	"context"
	"os"
	"simaru/config"
	"simaru/helper"
	"simaru/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength  = 2
	actionSeed = "seed"
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, drop, step-up or seed")
	}

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	action := os.Args[1]

	var err error

	switch action {
	case actionSeed:
		err = helper.SeedAdmin(context.Background(), cfg)
	case helper.ActionUp, helper.ActionDown, helper.ActionDrop, helper.ActionStepUp:
		err = helper.Runner(cfg, action)
	default:
		log.Fatal().Str("action", action).Msg("Invalid action. Use 'up', 'down', 'drop', 'step-up' or 'seed'")
	}

	if err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("Migration failed")
	}
}
