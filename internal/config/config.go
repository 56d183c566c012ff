package config

import (
	"fmt"
	"os"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	DBSource     string
	Port         string
	Env          string
	AMQPURL      string
	StoreBackend string
}

func Load() (*Config, error) {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = BackendPostgres
	}
	if backend != BackendPostgres && backend != BackendMemory {
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}

	dbSource := os.Getenv("DB_SOURCE")
	if backend == BackendPostgres && dbSource == "" {
		return nil, fmt.Errorf("DB_SOURCE environment variable is required")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &Config{
		DBSource:     dbSource,
		Port:         port,
		Env:          env,
		AMQPURL:      os.Getenv("AMQP_URL"),
		StoreBackend: backend,
	}, nil
}
