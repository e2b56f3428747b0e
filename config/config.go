package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	AES      AESConfig      `mapstructure:"aes"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Plaid    PlaidConfig    `mapstructure:"plaid"`
	Password PasswordConfig `mapstructure:"password"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// StorageConfig selects the wallet/user store backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for AES-256
}

// FirebaseConfig configures Google/Firebase ID token verification.
type FirebaseConfig struct {
	ProjectID string        `mapstructure:"project_id"`
	CertsURL  string        `mapstructure:"certs_url"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// PlaidConfig configures the bank aggregator client.
type PlaidConfig struct {
	ClientID string        `mapstructure:"client_id"`
	Secret   string        `mapstructure:"secret"`
	Env      string        `mapstructure:"env"` // sandbox, development, production
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// URL returns the API base URL, derived from Env unless BaseURL is set.
func (p PlaidConfig) URL() string {
	if p.BaseURL != "" {
		return strings.TrimRight(p.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.plaid.com", p.Env)
}

// PasswordConfig drives the password-age warning.
type PasswordConfig struct {
	MaxAge     time.Duration `mapstructure:"max_age"`
	WarnBefore time.Duration `mapstructure:"warn_before"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: WLT_.
// Nested keys use underscore: WLT_DATABASE_HOST, WLT_JWT_SECRET, etc.
// A .env file in the working directory, if present, is loaded into the
// process environment first; variables already set are not overwritten.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wallet_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrate", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "168h")
	v.SetDefault("jwt.issuer", "wallet-ledger")
	v.SetDefault("aes.key", "")
	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.certs_url", "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com")
	v.SetDefault("firebase.cache_ttl", "1h")
	v.SetDefault("plaid.client_id", "")
	v.SetDefault("plaid.secret", "")
	v.SetDefault("plaid.env", "sandbox")
	v.SetDefault("plaid.base_url", "")
	v.SetDefault("plaid.timeout", "10s")
	v.SetDefault("password.max_age", "2160h")
	v.SetDefault("password.warn_before", "168h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: WLT_DATABASE_HOST -> database.host
	v.SetEnvPrefix("WLT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Password.MaxAge <= 0 {
		return fmt.Errorf("password.max_age must be positive")
	}
	return nil
}
