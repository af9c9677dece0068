package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=inventory port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	HTTPPort    string        `mapstructure:"http_port"`
	DatabaseDSN string        `mapstructure:"database_dsn"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	JWTTTL      time.Duration `mapstructure:"jwt_ttl"`
	CORSOrigins string        `mapstructure:"cors_allowed_origins"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // json | text

	DBMaxOpenConns    int           `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int           `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `mapstructure:"db_conn_max_lifetime"`
	DBSlowThreshold   time.Duration `mapstructure:"db_slow_threshold"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

var keys = []string{
	"http_port", "database_dsn", "jwt_secret", "jwt_ttl", "cors_allowed_origins",
	"redis_addr", "redis_password", "log_level", "log_format",
	"db_max_open_conns", "db_max_idle_conns", "db_conn_max_lifetime", "db_slow_threshold",
	"shutdown_timeout",
}

// Load reads .env (if present), an optional config file and the environment.
// Environment variables use the upper-cased key, e.g. DATABASE_DSN.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("http_port", "8080")
	v.SetDefault("database_dsn", defaultDSN)
	v.SetDefault("jwt_ttl", 24*time.Hour)
	v.SetDefault("cors_allowed_origins", defaultCORSOrigins)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 10)
	v.SetDefault("db_conn_max_lifetime", 5*time.Minute)
	v.SetDefault("db_slow_threshold", time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	return nil
}

// Warnings lists settings that are fine for development only.
func (c *Config) Warnings() []string {
	var out []string
	if c.DatabaseDSN == defaultDSN {
		out = append(out, "DATABASE_DSN uses the default local connection string")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		out = append(out, "CORS_ALLOWED_ORIGINS uses the default development origin")
	}
	if c.RedisAddr == "" {
		out = append(out, "REDIS_ADDR not set, change events are not published")
	}
	return out
}

// AllowedOrigins splits the comma separated CORS setting.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
