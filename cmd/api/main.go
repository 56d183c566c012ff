package main

import (
	"context"
	"net/http"

	"github.com/dsuarezv/bankledger/internal/api"
	"github.com/dsuarezv/bankledger/internal/config"
	"github.com/dsuarezv/bankledger/internal/events"
	"github.com/dsuarezv/bankledger/internal/ledger"
	"github.com/dsuarezv/bankledger/internal/logger"
	"github.com/dsuarezv/bankledger/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("production")
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.Env)

	var ledgerStore ledger.Store
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory store; data will not survive restarts")
		ledgerStore = store.NewMemory()
	default:
		pg, err := store.NewPostgres(context.Background(), cfg.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to connect to database")
		}
		defer pg.Close()
		ledgerStore = pg
	}

	// Customer cache fed from the customers exchange. The ledger does
	// not consult it; it exists for the accounts service's own use and
	// keeps the binding warm.
	if cfg.AMQPURL != "" {
		listener, err := events.NewListener(cfg.AMQPURL, events.NewCustomerCache(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to connect to message broker")
		}
		if err := listener.Start(); err != nil {
			log.Fatal().Err(err).Msg("unable to start customer event listener")
		}
		defer listener.Close()
	} else {
		log.Warn().Msg("AMQP_URL not set; customer events disabled")
	}

	svc := ledger.New(ledgerStore, log)
	handler := api.NewHandler(svc, log)

	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("accounts service starting")
	if err := http.ListenAndServe(":"+cfg.Port, handler.Router()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
