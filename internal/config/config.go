// Package config loads service configuration from an optional YAML file,
// a local .env file and APP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	Storage struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`

	Postgres struct {
		DSN      string `mapstructure:"dsn"`
		MaxConns int32  `mapstructure:"max_conns"`
		MinConns int32  `mapstructure:"min_conns"`
	} `mapstructure:"postgres"`

	Migrations struct {
		Auto bool `mapstructure:"auto"`
	} `mapstructure:"migrations"`

	JWT struct {
		Secret    string        `mapstructure:"secret"`
		Issuer    string        `mapstructure:"issuer"`
		AccessTTL time.Duration `mapstructure:"access_ttl"`
	} `mapstructure:"jwt"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`

	// Redis is optional: an empty Addr disables the dashboard cache and the bootstrap lock.
	Redis struct {
		Addr         string        `mapstructure:"addr"`
		Password     string        `mapstructure:"password"`
		DB           int           `mapstructure:"db"`
		DashboardTTL time.Duration `mapstructure:"dashboard_ttl"`
	} `mapstructure:"redis"`

	Bootstrap struct {
		AdminName     string `mapstructure:"admin_name"`
		AdminEmail    string `mapstructure:"admin_email"`
		AdminPassword string `mapstructure:"admin_password"`
	} `mapstructure:"bootstrap"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

var defaults = map[string]any{
	"http.addr":             ":8080",
	"http.read_timeout":     15 * time.Second,
	"http.write_timeout":    30 * time.Second,
	"http.shutdown_timeout": 30 * time.Second,

	"storage.driver": DriverPostgres,

	"postgres.dsn":       "",
	"postgres.max_conns": 20,
	"postgres.min_conns": 2,

	"migrations.auto": true,

	"jwt.secret":     "",
	"jwt.issuer":     "inventory",
	"jwt.access_ttl": 60 * time.Minute,

	"log.level":       "info",
	"log.development": false,

	"redis.addr":          "",
	"redis.password":      "",
	"redis.db":            0,
	"redis.dashboard_ttl": 30 * time.Second,

	"bootstrap.admin_name":     "Administrator",
	"bootstrap.admin_email":    "",
	"bootstrap.admin_password": "",

	"metrics.enabled": true,
}

// Load reads configuration. path may be empty; APP_CONFIG is used then.
// A missing .env file is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("APP_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks required settings.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.JWT.AccessTTL <= 0 {
		errs = append(errs, errors.New("jwt.access_ttl must be positive"))
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns {
		errs = append(errs, errors.New("postgres.min_conns must not exceed postgres.max_conns"))
	}
	if (c.Bootstrap.AdminEmail == "") != (c.Bootstrap.AdminPassword == "") {
		errs = append(errs, errors.New("bootstrap.admin_email and bootstrap.admin_password must be set together"))
	}

	return errors.Join(errs...)
}

// RedisEnabled reports whether a redis address is configured.
func (c Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}
