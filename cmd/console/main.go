package main

import (
	"os"

	"github.com/yigit/communityadmin/internal/config"
	"github.com/yigit/communityadmin/internal/pkg/logger"
	"github.com/yigit/communityadmin/internal/server"
)

func main() {
	srv, err := server.NewServer(config.GetEnv("CONFIG_PATH", ""))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
