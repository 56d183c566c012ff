package main

import (
	"context"
	"net/http"

	"github.com/dsuarezv/bankledger/internal/api"
	"github.com/dsuarezv/bankledger/internal/config"
	"github.com/dsuarezv/bankledger/internal/customers"
	"github.com/dsuarezv/bankledger/internal/events"
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

	var customerStore customers.Store
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory store; data will not survive restarts")
		customerStore = store.NewMemoryCustomers()
	default:
		pg, err := store.NewPostgres(context.Background(), cfg.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to connect to database")
		}
		defer pg.Close()
		customerStore = pg
	}

	var publisher customers.Publisher
	if cfg.AMQPURL != "" {
		pub, err := events.NewPublisher(cfg.AMQPURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to connect to message broker")
		}
		defer pub.Close()
		publisher = pub
	} else {
		log.Warn().Msg("AMQP_URL not set; customer events disabled")
	}

	svc := customers.New(customerStore, publisher, log)
	handler := api.NewCustomerHandler(svc, log)

	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("customers service starting")
	if err := http.ListenAndServe(":"+cfg.Port, handler.Router()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
