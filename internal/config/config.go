// Package config loads application configuration from defaults, an optional
// YAML file and environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"stock_backend/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the API server.
type Config struct {
	Env      string         `yaml:"env"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
	Dollar   DollarConfig   `yaml:"dollar"`
	Timezone string         `yaml:"timezone"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	PublicDir string `yaml:"public_dir"`
}

type DatabaseConfig struct {
	URL           string `yaml:"url"`
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Name          string `yaml:"name"`
	SSLMode       string `yaml:"sslmode"`
	MaxOpenConns  int    `yaml:"max_open_conns"`
	MaxIdleConns  int    `yaml:"max_idle_conns"`
	RunMigrations bool   `yaml:"run_migrations"`
}

// DSN returns URL when set, otherwise a lib/pq key/value connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DollarConfig points at the page the blue-dollar quote is scraped from.
type DollarConfig struct {
	SourceURL string        `yaml:"source_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// IsDevelopment reports whether the server runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.Env == "" || strings.EqualFold(c.Env, "development")
}

// Location resolves Timezone; "Local" or empty means the process time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Env: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Database: DatabaseConfig{
			Host:          "localhost",
			Port:          "5432",
			User:          "stock_user",
			Password:      "stock_password",
			Name:          "stock_db",
			SSLMode:       "disable",
			MaxOpenConns:  25,
			MaxIdleConns:  5,
			RunMigrations: true,
		},
		Auth: AuthConfig{
			TokenTTL: time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Dollar: DollarConfig{
			SourceURL: "https://dolarhoy.com/",
			Timeout:   10 * time.Second,
		},
		Timezone: "Local",
	}
}

// devJWTSecret is only accepted when Env is development.
const devJWTSecret = "dev-only-jwt-secret-change-me"

// Load reads CONFIG_FILE (if set) and then the environment.
// It returns an error listing every missing or invalid value.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	var problems []string

	cfg.Env = utils.Getenv("APP_ENV", cfg.Env)
	cfg.Server.Host = utils.Getenv("HOST", cfg.Server.Host)
	cfg.Server.Port = utils.Getenv("PORT", cfg.Server.Port)
	cfg.Server.PublicDir = utils.Getenv("PUBLIC_DIR", cfg.Server.PublicDir)

	cfg.Database.URL = utils.Getenv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.Host = utils.Getenv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = utils.Getenv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = utils.Getenv("DB_USER", cfg.Database.User)
	cfg.Database.Password = utils.Getenv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = utils.Getenv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = utils.Getenv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.MaxOpenConns = envInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns, &problems)
	cfg.Database.MaxIdleConns = envInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns, &problems)
	cfg.Database.RunMigrations = envBool("RUN_MIGRATIONS", cfg.Database.RunMigrations, &problems)

	cfg.Auth.JWTSecret = utils.Getenv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.TokenTTL = envDuration("JWT_TTL", cfg.Auth.TokenTTL, &problems)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = utils.SplitCSV(v)
	}
	if v := os.Getenv("CORS_ALLOWED_METHODS"); v != "" {
		cfg.CORS.AllowedMethods = utils.SplitCSV(v)
	}

	cfg.Log.Level = utils.Getenv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = utils.Getenv("LOG_FORMAT", cfg.Log.Format)
	cfg.Timezone = utils.Getenv("TIMEZONE", cfg.Timezone)

	cfg.Dollar.SourceURL = utils.Getenv("DOLLAR_SOURCE_URL", cfg.Dollar.SourceURL)
	cfg.Dollar.Timeout = envDuration("DOLLAR_TIMEOUT", cfg.Dollar.Timeout, &problems)

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsDevelopment() {
			cfg.Auth.JWTSecret = devJWTSecret
		} else {
			problems = append(problems, "JWT_SECRET is required outside development")
		}
	}
	if cfg.Auth.TokenTTL <= 0 {
		problems = append(problems, "JWT_TTL must be positive")
	}
	if cfg.Dollar.Timeout <= 0 {
		problems = append(problems, "DOLLAR_TIMEOUT must be positive")
	}
	if _, err := cfg.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q: %v", cfg.Timezone, err))
	}

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func envInt(key string, fallback int, problems *[]string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be an integer", key))
		return fallback
	}
	return v
}

func envBool(key string, fallback bool, problems *[]string) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be a boolean", key))
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration, problems *[]string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be a duration such as 1h", key))
		return fallback
	}
	return v
}
