package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/savefarm/savefarm/internal/core/impact"
)

const (
	StorageFile  = "file"
	StorageMongo = "mongo"

	SessionMemory = "memory"
	SessionRedis  = "redis"
	SessionJWT    = "jwt"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	DataDir  string `env:"DATA_DIR,  default=./data"`

	StorageBackend string `env:"STORAGE_BACKEND, default=file"`

	Session SessionConfig
	CORS    CORSConfig
	Impact  ImpactConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	HF      HuggingFaceConfig
	MealDB  MealDBConfig

	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT, default=15s"`
}

// SessionConfig selects the session store. Revocation only applies to the
// jwt backend and names where logged-out token ids are kept.
type SessionConfig struct {
	Backend    string        `env:"SESSION_BACKEND,    default=memory"`
	Secret     string        `env:"SESSION_SECRET"`
	TTL        time.Duration `env:"SESSION_TTL,        default=0s"`
	Header     string        `env:"SESSION_HEADER,     default=X-Session-Id"`
	Revocation string        `env:"SESSION_REVOCATION, default=memory"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`
}

type ImpactConfig struct {
	MatchPolicy string `env:"IMPACT_MATCH_POLICY, default=overlapping"`
	Numeric     bool   `env:"IMPACT_NUMERIC,      default=false"`
}

// MongoConfig timeouts: ConnectTimeout covers startup, PingTimeout the
// readiness check.
type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,              default=savefarm"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`
	PingTimeout    time.Duration `env:"MONGO_PING_TIMEOUT,    default=2s"`
}

// RedisConfig.KeyPrefix namespaces every key so several deployments can
// share one database.
type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR,         default=localhost:6379"`
	DB          int           `env:"REDIS_DB,           default=0"`
	KeyPrefix   string        `env:"REDIS_KEY_PREFIX,   default=savefarm"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT, default=5s"`
	PingTimeout time.Duration `env:"REDIS_PING_TIMEOUT, default=2s"`
}

// HuggingFaceConfig enables model inference when Token is set. Empty
// FallbackModels means the built-in list.
type HuggingFaceConfig struct {
	Token          string   `env:"HF_TOKEN"`
	Model          string   `env:"HF_MODEL,           default=sshleifer/tiny-gpt2"`
	FallbackModels []string `env:"HF_FALLBACK_MODELS"`
	BaseURL        string   `env:"HF_BASE_URL,        default=https://api-inference.huggingface.co/models"`
}

type MealDBConfig struct {
	BaseURL string `env:"MEALDB_BASE_URL, default=https://www.themealdb.com/api/json/v1/1"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown backends and policies.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case StorageFile, StorageMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	switch c.Session.Backend {
	case SessionMemory, SessionRedis:
	case SessionJWT:
		if c.Session.Secret == "" {
			errs = append(errs, errors.New("SESSION_SECRET is required for the jwt session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend))
	}
	switch c.Session.Revocation {
	case SessionMemory, SessionRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_REVOCATION %q", c.Session.Revocation))
	}
	if c.Session.TTL < 0 {
		errs = append(errs, errors.New("SESSION_TTL must not be negative"))
	}
	if strings.TrimSpace(c.Session.Header) == "" {
		errs = append(errs, errors.New("SESSION_HEADER must not be empty"))
	}

	if _, err := impact.ParseMatchPolicy(c.Impact.MatchPolicy); err != nil {
		errs = append(errs, fmt.Errorf("IMPACT_MATCH_POLICY: %w", err))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether human-friendly logs should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// NeedsRedis reports whether any configured component keeps state in Redis.
func (c *Config) NeedsRedis() bool {
	return c.Session.Backend == SessionRedis ||
		(c.Session.Backend == SessionJWT && c.Session.Revocation == SessionRedis)
}

// InferenceEnabled reports whether a usable Hugging Face token is configured.
func (c *Config) InferenceEnabled() bool {
	return strings.HasPrefix(c.HF.Token, "hf_")
}
