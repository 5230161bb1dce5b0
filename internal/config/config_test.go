package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_POSTGRES_DSN", "postgres://localhost/inventory")
	t.Setenv("APP_JWT_SECRET", "s3cret")
	t.Setenv("APP_JWT_ACCESS_TTL", "15m")
	t.Setenv("APP_REDIS_ADDR", "localhost:6379")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Equal(t, DriverPostgres, c.Storage.Driver)
	assert.Equal(t, "postgres://localhost/inventory", c.Postgres.DSN)
	assert.Equal(t, 15*time.Minute, c.JWT.AccessTTL)
	assert.Equal(t, int32(20), c.Postgres.MaxConns)
	assert.True(t, c.RedisEnabled())
	assert.True(t, c.Migrations.Auto)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
storage:
  driver: memory
jwt:
  secret: from-file
log:
  level: debug
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.HTTP.Addr)
	assert.Equal(t, DriverMemory, c.Storage.Driver)
	assert.Equal(t, "from-file", c.JWT.Secret)
	assert.Equal(t, "debug", c.Log.Level)
	assert.False(t, c.RedisEnabled())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("APP_STORAGE_DRIVER=memory\nAPP_JWT_SECRET=dotenv\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("APP_STORAGE_DRIVER")
		os.Unsetenv("APP_JWT_SECRET")
	})

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv", c.JWT.Secret)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Storage.Driver = DriverPostgres
		c.Postgres.DSN = "postgres://x"
		c.Postgres.MaxConns = 10
		c.JWT.Secret = "s"
		c.JWT.AccessTTL = time.Hour
		return c
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"missing dsn", func(c *Config) { c.Postgres.DSN = "" }, "postgres.dsn is required"},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "jwt.secret is required"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }, "unknown driver"},
		{"half bootstrap", func(c *Config) { c.Bootstrap.AdminEmail = "a@b.c" }, "must be set together"},
		{"pool bounds", func(c *Config) { c.Postgres.MinConns = 50 }, "min_conns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	memory := valid()
	memory.Storage.Driver = DriverMemory
	memory.Postgres.DSN = ""
	assert.NoError(t, memory.Validate())
}
