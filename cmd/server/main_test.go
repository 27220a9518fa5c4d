package main

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/account-service/internal/infrastructure/config"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{Port: "0"}
	cfg.Store.Identity = config.BackendMemory
	cfg.Store.Policy = config.BackendMemory
	cfg.Password.BcryptCost = 4
	cfg.Accounts.SeedRoles = true
	return cfg
}

func TestRun_ReturnsConnectError(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Identity = config.BackendMongo
	cfg.Mongo.URI = "mongodb://localhost:27017"

	err := run(context.Background(), cfg, zerolog.New(io.Discard))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to mongodb")
	assert.Contains(t, err.Error(), "database name is empty")
}

func TestRun_ReturnsTokenError(t *testing.T) {
	cfg := memoryConfig()

	err := run(context.Background(), cfg, zerolog.New(io.Discard))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create token issuer")
}
