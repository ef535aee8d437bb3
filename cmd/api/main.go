package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"expensert/internal/config"
	"expensert/internal/database"
	"expensert/internal/events"
	"expensert/internal/logger"
	"expensert/internal/server"
	"expensert/internal/services"
	"expensert/internal/storage"
	"expensert/internal/storage/boltstore"
	"expensert/internal/storage/sqlstore"
	"expensert/internal/validator"
)

// @title           Expensert API
// @version         1.0
// @description     Expensert keeps a personal ledger of income and expenses per namespace, with categories, budgets and reports.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	backend, err := openBackend(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warnf("failed to close storage backend: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher events.Publisher = events.Nop{}
	var client *events.Client
	if appConfig.AMQPURL != "" {
		client, err = events.NewClient(appConfig.AMQPURL, appConfig.AMQPExchange)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		defer client.Close()
		publisher = client
	}

	registry := services.NewLedgerRegistry(backend, publisher,
		services.WithInstanceID(appConfig.InstanceID),
		services.WithCommitTimeout(appConfig.CommitTimeout),
	)

	router := server.NewRouter(server.NewServices(registry, time.Now), server.Options{
		DefaultNamespace: appConfig.DefaultNamespace,
		Swagger:          appConfig.Env != "production",
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Starting Expensert server on port %s (storage: %s)", appConfig.Port, appConfig.StorageBackend)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if client != nil {
		g.Go(func() error {
			log.Infow("Consuming ledger changes", "exchange", appConfig.AMQPExchange, "instance", appConfig.InstanceID)
			if err := client.Consume(gctx, registry.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("change consumer: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// openBackend returns the storage backend selected by STORAGE_BACKEND.
func openBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Get().Warn("Using in-memory storage; data is lost on exit")
		return storage.NewMemory(), nil

	case config.BackendSQL:
		dbConfig, err := database.NewConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load database configuration: %w", err)
		}
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
		store, err := boltstore.New(cfg.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt database: %w", err)
		}
		return store, nil
	}
}
