package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the API process.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL   string
	RunMigrations bool

	RedisURL string
	NATSURL  string

	SessionSecret string
	SessionTTL    time.Duration

	DraftTTL       time.Duration
	RequestTimeout time.Duration

	AsynqConcurrency int
	AsynqQueues      map[string]int

	CORSAllowedOrigins []string
}

// Load reads configuration from the environment. A .env file is loaded first
// when present, and CONFIG_FILE may point to a YAML file whose values are
// overridden by environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("config_file")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("database_url", "")
	v.SetDefault("run_migrations", true)
	v.SetDefault("redis_url", "")
	v.SetDefault("nats_url", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("draft_ttl", "30m")
	v.SetDefault("request_timeout", "3s")
	v.SetDefault("asynq_concurrency", 10)
	v.SetDefault("asynq_queues", "default=1,chat=1")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("config_file", "")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:               strings.TrimSpace(v.GetString("port")),
		Env:                strings.TrimSpace(v.GetString("env")),
		LogLevel:           strings.TrimSpace(v.GetString("log_level")),
		DatabaseURL:        strings.TrimSpace(v.GetString("database_url")),
		RunMigrations:      v.GetBool("run_migrations"),
		RedisURL:           strings.TrimSpace(v.GetString("redis_url")),
		NATSURL:            strings.TrimSpace(v.GetString("nats_url")),
		SessionSecret:      v.GetString("session_secret"),
		SessionTTL:         v.GetDuration("session_ttl"),
		DraftTTL:           v.GetDuration("draft_ttl"),
		RequestTimeout:     v.GetDuration("request_timeout"),
		AsynqConcurrency:   v.GetInt("asynq_concurrency"),
		AsynqQueues:        ParseQueueWeights(v.GetString("asynq_queues")),
		CORSAllowedOrigins: splitCSV(v.GetString("cors_allowed_origins")),
	}

	if cfg.AsynqConcurrency <= 0 {
		cfg.AsynqConcurrency = 10
	}
	if len(cfg.AsynqQueues) == 0 {
		cfg.AsynqQueues = map[string]int{"default": 1, "chat": 1}
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 3 * time.Second
	}
	return cfg
}

// Validate checks that the required settings are present.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("config: DATABASE_URL is required"))
	}
	if c.RedisURL == "" {
		errs = append(errs, errors.New("config: REDIS_URL is required"))
	}
	if !c.IsDevelopment() && c.SessionSecret == "" {
		errs = append(errs, errors.New("config: SESSION_SECRET is required outside development"))
	}
	if c.DraftTTL <= 0 {
		errs = append(errs, errors.New("config: DRAFT_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ParseQueueWeights parses strings like "critical=6,default=3,low=1" into a map.
func ParseQueueWeights(s string) map[string]int {
	res := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		name := strings.TrimSpace(kv[0])
		if name == "" {
			continue
		}
		w := 1
		if len(kv) == 2 {
			if i, err := strconv.Atoi(strings.TrimSpace(kv[1])); err == nil && i > 0 {
				w = i
			}
		}
		res[name] = w
	}
	return res
}

func splitCSV(s string) []string {
	var out []string
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
