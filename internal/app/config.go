package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/gateway/stripegw"
)

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	RedisAddr   string `default:"localhost:6379" usage:"Redis address for session storage" flag:"redis-addr"`
	RedisPass   string `default:"" usage:"Redis password" flag:"redis-pass"`
	SiteURL     string `default:"http://localhost:8080" usage:"Public site URL used for checkout redirects" flag:"site-url"`

	Stripe   StripeConfig
	Session  SessionConfig
	Security SecurityConfig

	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// StripeConfig holds per-currency Stripe API keys. A currency without a
// secret key is simply not available for checkout.
type StripeConfig struct {
	USDSecretKey string `usage:"Stripe secret key for USD (STORE_STRIPE_USD_SECRET_KEY)" flag:"stripe-usd-secret-key"`
	USDPublicKey string `usage:"Stripe publishable key for USD" flag:"stripe-usd-public-key"`
	EURSecretKey string `usage:"Stripe secret key for EUR (STORE_STRIPE_EUR_SECRET_KEY)" flag:"stripe-eur-secret-key"`
	EURPublicKey string `usage:"Stripe publishable key for EUR" flag:"stripe-eur-public-key"`
}

// Keys assembles the per-currency key map for the gateway constructor,
// skipping currencies that have no secret key configured.
func (c StripeConfig) Keys() stripegw.Config {
	cfg := stripegw.Config{}
	if c.USDSecretKey != "" {
		cfg[money.USD] = stripegw.Keys{Secret: c.USDSecretKey, Public: c.USDPublicKey}
	}
	if c.EURSecretKey != "" {
		cfg[money.EUR] = stripegw.Keys{Secret: c.EURSecretKey, Public: c.EURPublicKey}
	}
	return cfg
}

// SessionConfig controls browser session tokens and their Redis backing.
type SessionConfig struct {
	Pepper       string        `usage:"HMAC pepper for signing session tokens (STORE_SESSION_PEPPER)" flag:"session-pepper"`
	TTL          time.Duration `default:"720h" usage:"Session (and cart binding) lifetime" flag:"session-ttl"`
	SecureCookie bool          `default:"true" usage:"Mark the session cookie Secure (HTTPS only); disable for local HTTP" flag:"session-secure-cookie"`
}

// SecurityConfig controls authentication for the management API surface.
type SecurityConfig struct {
	APIKeyPepper string `usage:"HMAC pepper for API key hashing (STORE_SECURITY_API_KEY_PEPPER)" flag:"api-key-pepper"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"true" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set STORE_DATABASE_URL or DATABASE_URL")
	}
	if cfg.Session.Pepper == "" {
		return nil, errors.New("session pepper is required: set STORE_SESSION_PEPPER")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's STORE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if c.RedisAddr == "localhost:6379" {
		if v := os.Getenv("REDIS_URL"); v != "" {
			c.RedisAddr = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
