package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store backends selectable at startup.
const (
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token    TokenConfig
	Store    StoreConfig
	Password PasswordConfig
	Accounts AccountsConfig

	Mongo MongoConfig
	Redis RedisConfig
}

type TokenConfig struct {
	Key      string `env:"TOKEN_KEY, required"`
	Issuer   string `env:"TOKEN_ISSUER"`
	Audience string `env:"TOKEN_AUDIENCE"`
}

type StoreConfig struct {
	Identity string `env:"IDENTITY_STORE, default=mongo"`
	Policy   string `env:"POLICY_STORE,   default=mongo"`
}

type PasswordConfig struct {
	BcryptCost    int  `env:"BCRYPT_COST,             default=10"`
	RequireDigit  bool `env:"PASSWORD_REQUIRE_DIGIT,  default=false"`
	RequireUpper  bool `env:"PASSWORD_REQUIRE_UPPER,  default=false"`
	RequireLower  bool `env:"PASSWORD_REQUIRE_LOWER,  default=false"`
	RequireSymbol bool `env:"PASSWORD_REQUIRE_SYMBOL, default=false"`
}

type AccountsConfig struct {
	DefaultRoles []string `env:"REGISTER_DEFAULT_ROLES"`
	SeedRoles    bool     `env:"SEED_ROLES, default=true"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=coursehub_accounts"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=0"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads a .env file when present and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Identity {
	case BackendMongo, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("IDENTITY_STORE must be %q or %q, got %q", BackendMongo, BackendMemory, c.Store.Identity))
	}
	switch c.Store.Policy {
	case BackendMongo, BackendRedis, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("POLICY_STORE must be %q, %q or %q, got %q", BackendMongo, BackendRedis, BackendMemory, c.Store.Policy))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT cannot be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// UsesMongo reports whether any configured store needs a MongoDB connection.
func (c *Config) UsesMongo() bool {
	return c.Store.Identity == BackendMongo || c.Store.Policy == BackendMongo
}

func (c *Config) UsesRedis() bool {
	return c.Store.Policy == BackendRedis
}

// Pretty reports whether logs should be human readable.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}
