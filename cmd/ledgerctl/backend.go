package main

import (
	"fmt"

	"expensert/internal/config"
	"expensert/internal/database"
	"expensert/internal/events"
	"expensert/internal/services"
	"expensert/internal/storage"
	"expensert/internal/storage/boltstore"
	"expensert/internal/storage/sqlstore"
)

// session is an open backend plus the registry and publisher built on it.
type session struct {
	ledgers   *services.LedgerRegistry
	backend   storage.Backend
	publisher events.Publisher
}

func (s *session) Close() {
	_ = s.publisher.Close()
	_ = s.backend.Close()
}

func (app *cli) open() (*session, error) {
	backend, err := app.openBackend()
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.Nop{}
	if url := app.v.GetString(keyAMQPURL); url != "" {
		client, err := events.NewClient(url, app.v.GetString(keyExchange))
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("failed to connect to message broker: %w", err)
		}
		publisher = client
	}

	ledgers := services.NewLedgerRegistry(backend, publisher, services.WithInstanceID("ledgerctl"))
	return &session{ledgers: ledgers, backend: backend, publisher: publisher}, nil
}

func (app *cli) openBackend() (storage.Backend, error) {
	switch kind := app.v.GetString(keyStorage); kind {
	case config.BackendBolt:
		store, err := boltstore.New(app.v.GetString(keyBoltPath))
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt database: %w", err)
		}
		return store, nil

	case config.BackendSQL:
		dbConfig, err := database.NewConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load database configuration: %w", err)
		}
		dbConfig.Driver = app.v.GetString(keyDBDriver)
		dbConfig.Path = app.v.GetString(keyDBPath)

		dbManager, err := database.NewManager(dbConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create database manager: %w", err)
		}
		if err := dbManager.RunMigrations(); err != nil {
			_ = dbManager.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return sqlstore.New(dbManager.DB()), nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q (use bolt or sql)", kind)
	}
}
