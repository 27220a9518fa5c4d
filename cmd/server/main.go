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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/coursehub/account-service/internal/api"
	"github.com/coursehub/account-service/internal/api/metrics"
	"github.com/coursehub/account-service/internal/core/accounts"
	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/ports"
	"github.com/coursehub/account-service/internal/core/service"
	"github.com/coursehub/account-service/internal/infrastructure/config"
	"github.com/coursehub/account-service/internal/infrastructure/db/memory"
	"github.com/coursehub/account-service/internal/infrastructure/db/mongo"
	"github.com/coursehub/account-service/internal/infrastructure/db/redis"
	"github.com/coursehub/account-service/internal/infrastructure/security"
	"github.com/coursehub/account-service/pkg/logger"
)

// policyBackend is a policy store that can also be provisioned.
type policyBackend interface {
	ports.PolicyStore
	ports.RoleCatalog
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty(), Service: "accounts"})
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}

// run returns instead of exiting so deferred connection cleanup always runs.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var (
		db  *mongodriver.Database
		rdb *goredis.Client
	)
	if cfg.UsesMongo() {
		client, database, err := mongo.Connect(ctx, mongo.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return fmt.Errorf("connect to mongodb: %w", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db = database
	}
	if cfg.UsesRedis() {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		rdb = client
	}

	hasher := security.NewBcryptHasher(cfg.Password.BcryptCost, security.PasswordPolicy{
		RequireDigit:  cfg.Password.RequireDigit,
		RequireUpper:  cfg.Password.RequireUpper,
		RequireLower:  cfg.Password.RequireLower,
		RequireSymbol: cfg.Password.RequireSymbol,
	})

	var (
		identities ports.IdentityStore
		policies   policyBackend
		mem        *memory.Store
	)
	inMemory := func() *memory.Store {
		if mem == nil {
			mem = memory.NewStore(hasher)
		}
		return mem
	}

	switch cfg.Store.Identity {
	case config.BackendMongo:
		store := mongo.NewIdentityStore(db, hasher)
		if err := store.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure identity indexes: %w", err)
		}
		identities = store
	default:
		identities = inMemory()
	}

	switch cfg.Store.Policy {
	case config.BackendMongo:
		policies = mongo.NewPolicyStore(db)
	case config.BackendRedis:
		policies = redis.NewPolicyStore(rdb)
	default:
		policies = inMemory()
	}

	if cfg.Accounts.SeedRoles {
		if err := policies.SeedRoles(ctx, domain.DefaultRoles()); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
		log.Info().Str("store", cfg.Store.Policy).Msg("roles seeded")
	}

	tokenOpts := service.TokenOptions{
		SigningKey: cfg.Token.Key,
		Issuer:     cfg.Token.Issuer,
		Audience:   cfg.Token.Audience,
	}
	issuer, err := service.NewTokenIssuer(tokenOpts)
	if err != nil {
		return fmt.Errorf("create token issuer: %w", err)
	}
	verifier, err := service.NewTokenVerifier(tokenOpts)
	if err != nil {
		return fmt.Errorf("create token verifier: %w", err)
	}

	profiles := service.NewProfileAssembler(service.NewPolicyResolver(identities, policies), issuer)
	accountService, err := accounts.New(accounts.Config{
		Identities:   identities,
		Profiles:     profiles,
		DefaultRoles: cfg.Accounts.DefaultRoles,
		Observer:     metrics.NewDispatchObserver(),
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("build accounts dispatcher: %w", err)
	}

	router := api.NewRouter(api.RouterConfig{
		Accounts: accountService,
		Verifier: verifier,
		Roles:    policies,
		Mongo:    db,
		Redis:    rdb,
		Log:      log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("identity_store", cfg.Store.Identity).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
	return nil
}
