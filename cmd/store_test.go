package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/samueldmelo/logfoto/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{StoreBackend: config.BackendMemory, StoreTimeout: time.Second, Timezone: "UTC"}
		require.NoError(t, cfg.Validate())

		store, closeStore, err := openStore(ctx, cfg, quietLogger())
		require.NoError(t, err)
		defer closeStore()
		products, err := store.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("rest", func(t *testing.T) {
		cfg := &config.Config{
			StoreBackend: config.BackendREST, StoreURL: "http://127.0.0.1:1", StoreKey: "key",
			StoreTimeout: time.Second, Timezone: "UTC",
		}
		require.NoError(t, cfg.Validate())

		store, closeStore, err := openStore(ctx, cfg, quietLogger())
		require.NoError(t, err)
		defer closeStore()
		assert.NotNil(t, store)
	})

	t.Run("postgres unreachable", func(t *testing.T) {
		cfg := &config.Config{StoreBackend: config.BackendPostgres, DatabaseURL: "postgres://u:p@127.0.0.1:1/db?sslmode=disable"}
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := openStore(cancelled, cfg, quietLogger())
		assert.ErrorContains(t, err, "failed to connect to database")
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := openStore(ctx, &config.Config{StoreBackend: "ftp"}, quietLogger())
		assert.Error(t, err)
	})
}
