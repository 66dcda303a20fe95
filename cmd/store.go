package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samueldmelo/logfoto/config"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/samueldmelo/logfoto/internal/repository"
	"github.com/samueldmelo/logfoto/pkg/db"
	"github.com/sirupsen/logrus"
)

// openStore builds the product store selected by STORE_BACKEND. The returned
// func releases whatever the store holds open.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (domain.ProductStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendREST:
		store := repository.NewRestProductRepository(repository.RestConfig{
			BaseURL:  cfg.StoreURL,
			APIKey:   cfg.StoreKey,
			Client:   &http.Client{Timeout: cfg.StoreTimeout},
			Location: cfg.Location(),
		}, logger)
		logger.Infof("Using REST product store at %s", cfg.StoreURL)
		return store, func() {}, nil

	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info("Database connection established.")
		closeDB := func() {
			if err := database.Close(); err != nil {
				logger.Warnf("Failed to close database: %v", err)
			}
		}
		return repository.NewPostgresProductRepository(database, logger), closeDB, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory product store; data is lost on exit")
		return repository.NewMemoryProductRepository(cfg.Location(), logger), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
