package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER",
	"DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "JWT_SECRET", "JWT_TTL",
	"CORS_ORIGINS", "PORT", "BEST_OF_LIMIT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "file:dev.db")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.BestOfLimit)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "file:dev.db", cfg.Database.DSN())
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("BEST_OF_LIMIT", "3")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "ranker")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "media")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 3, cfg.BestOfLimit)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t,
		"host=db user=ranker password=secret dbname=media port=5432 sslmode=disable TimeZone=UTC",
		cfg.Database.DSN())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
port = 3000
log_level = "debug"
best_of_limit = 5

[database]
url = "postgres://ranker@localhost/media"

[auth]
jwt_secret = "from-file"
token_ttl = "24h"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PORT", "4000")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port, "environment wins over the file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.BestOfLimit)
	assert.Equal(t, "postgres://ranker@localhost/media", cfg.Database.URL)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
		want string
	}{
		{
			name: "bad port",
			env:  map[string]string{"DATABASE_URL": "x.db", "PORT": "eighty"},
			want: "invalid PORT",
		},
		{
			name: "port out of range",
			env:  map[string]string{"DATABASE_URL": "x.db", "PORT": "70000"},
			want: "PORT must be between",
		},
		{
			name: "bad ttl",
			env:  map[string]string{"DATABASE_URL": "x.db", "JWT_TTL": "soon"},
			want: "invalid JWT_TTL",
		},
		{
			name: "zero limit",
			env:  map[string]string{"DATABASE_URL": "x.db", "BEST_OF_LIMIT": "0"},
			want: "BEST_OF_LIMIT",
		},
		{
			name: "no database",
			env:  map[string]string{},
			want: "DATABASE_URL or DB_HOST",
		},
		{
			name: "default secret in production",
			env:  map[string]string{"DATABASE_URL": "x.db", "APP_ENV": "production"},
			want: "JWT_SECRET",
		},
		{
			name: "missing file",
			env:  map[string]string{"DATABASE_URL": "x.db"},
			file: "does-not-exist.toml",
			want: "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), tt.file)
			}

			_, err := LoadFrom(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProductionWithSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "release")
	t.Setenv("DATABASE_URL", "x.db")
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
