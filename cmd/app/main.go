package main

import (
	"simaru/config"
	"simaru/di"
	"simaru/helper"
	"simaru/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title SIMARU API
// @version 1.0
// @description Room booking administration for campus facilities.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
