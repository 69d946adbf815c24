package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultPort        = 8080
	defaultJWTTTL      = 72 * time.Hour
	defaultLogLevel    = "info"
	defaultBestOfLimit = 10
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultSSLMode     = "disable"
)

// Config is the runtime configuration. Values come from an optional TOML
// file named by CONFIG_FILE, then from the environment (.env is autoloaded).
type Config struct {
	AppEnv      string         `toml:"app_env"`
	Port        int            `toml:"port"`
	LogLevel    string         `toml:"log_level"`
	BestOfLimit int            `toml:"best_of_limit"`
	CORSOrigins []string       `toml:"cors_origins"`
	Database    DatabaseConfig `toml:"database"`
	Auth        AuthConfig     `toml:"auth"`
}

// DatabaseConfig accepts either a full URL or the discrete DB_* settings.
// A URL that is not postgres:// is treated as a SQLite path.
type DatabaseConfig struct {
	URL      string `toml:"url"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
}

type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret"`
	TokenTTL  time.Duration `toml:"token_ttl"`
}

// DSN returns the connection string handed to database.Connect.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

func Default() *Config {
	return &Config{
		AppEnv:      "dev",
		Port:        defaultPort,
		LogLevel:    defaultLogLevel,
		BestOfLimit: defaultBestOfLimit,
		CORSOrigins: []string{"*"},
		Database: DatabaseConfig{
			Port:    "5432",
			SSLMode: defaultSSLMode,
		},
		Auth: AuthConfig{
			JWTSecret: defaultJWTSecret,
			TokenTTL:  defaultJWTTTL,
		},
	}
}

// Load builds the configuration from CONFIG_FILE (if set) and the environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom is Load with an explicit TOML path; an empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.AppEnv, "APP_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")

	if v := env("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORSOrigins = append(c.CORSOrigins, origin)
			}
		}
	}

	if err := setInt(&c.Port, "PORT"); err != nil {
		return err
	}
	if err := setInt(&c.BestOfLimit, "BEST_OF_LIMIT"); err != nil {
		return err
	}

	if v := env("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_TTL value %q: %w", v, err)
		}
		c.Auth.TokenTTL = d
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if c.BestOfLimit <= 0 {
		return fmt.Errorf("BEST_OF_LIMIT must be > 0")
	}
	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DB_HOST must be set")
	}
	if c.IsProduction() {
		secret := strings.TrimSpace(c.Auth.JWTSecret)
		if secret == "" || secret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func (c *Config) Addr() string {
	return "0.0.0.0:" + strconv.Itoa(c.Port)
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func setString(dst *string, name string) {
	if v := env(name); v != "" {
		*dst = v
	}
}

func setInt(dst *int, name string) error {
	v := env(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", name, v, err)
	}
	*dst = n
	return nil
}
