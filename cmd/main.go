// Package main provides the wallet API to read the balance, browse the
// transaction history and process outgoing transfers.
package main

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/munkhbat-e/pocket-ledger/cmd/httpserver"
	"github.com/munkhbat-e/pocket-ledger/internal/middleware"
	"github.com/munkhbat-e/pocket-ledger/pkg/configpkg"
	"github.com/munkhbat-e/pocket-ledger/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	// The primary snapshot store is optional; without it the file
	// fallback carries all persistence.
	var db *sql.DB
	if config.DBSource != "" {
		db, err = dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			logger.Warn().Err(err).Msg("primary store unavailable, using fallback only")
			db = nil
		}
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("POCKET LEDGER SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
