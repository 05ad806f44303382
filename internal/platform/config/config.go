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

// Config agrupa todo lo que el proceso lee del entorno.
type Config struct {
	Port     string
	DBDSN    string
	RedisURL string

	LogLevel  string
	LogFormat string
	AppName   string

	AuthBaseURL string
	AuthAPIKey  string
	AuthTimeout time.Duration

	SeedDemo    bool
	SeedOwnerID string

	RemindersEnabled  bool
	ReminderInterval  time.Duration
	ReminderLookahead time.Duration

	DocumentsDir   string
	MaxUploadBytes int64

	CommunityCacheTTL time.Duration
	ShutdownTimeout   time.Duration
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// Load lee .env (si existe) y luego variables de entorno.
// Las variables del entorno real tienen prioridad sobre el .env.
func Load() (Config, error) {
	return LoadFrom(".env")
}

func LoadFrom(dotEnvPath string) (Config, error) {
	if p := strings.TrimSpace(dotEnvPath); p != "" {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", p, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: stat %s: %w", p, err)
		}
	}

	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("db_dsn", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("app_name", "carecircle")
	v.SetDefault("auth_base_url", "")
	v.SetDefault("auth_api_key", "")
	v.SetDefault("auth_timeout", 5*time.Second)
	v.SetDefault("seed_demo", false)
	v.SetDefault("seed_owner_id", "demo-owner")
	v.SetDefault("reminders_enabled", false)
	v.SetDefault("reminder_interval", 5*time.Minute)
	v.SetDefault("reminder_lookahead", time.Hour)
	v.SetDefault("documents_dir", "")
	v.SetDefault("max_upload_bytes", int64(20<<20))
	v.SetDefault("community_cache_ttl", 10*time.Minute)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.AutomaticEnv()

	cfg := Config{
		Port:              strings.TrimSpace(v.GetString("port")),
		DBDSN:             strings.TrimSpace(v.GetString("db_dsn")),
		RedisURL:          strings.TrimSpace(v.GetString("redis_url")),
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
		AppName:           v.GetString("app_name"),
		AuthBaseURL:       strings.TrimSpace(v.GetString("auth_base_url")),
		AuthAPIKey:        strings.TrimSpace(v.GetString("auth_api_key")),
		AuthTimeout:       v.GetDuration("auth_timeout"),
		SeedDemo:          v.GetBool("seed_demo"),
		SeedOwnerID:       strings.TrimSpace(v.GetString("seed_owner_id")),
		RemindersEnabled:  v.GetBool("reminders_enabled"),
		ReminderInterval:  v.GetDuration("reminder_interval"),
		ReminderLookahead: v.GetDuration("reminder_lookahead"),
		DocumentsDir:      strings.TrimSpace(v.GetString("documents_dir")),
		MaxUploadBytes:    v.GetInt64("max_upload_bytes"),
		CommunityCacheTTL: v.GetDuration("community_cache_ttl"),
		ShutdownTimeout:   v.GetDuration("shutdown_timeout"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port == "" {
		return errors.New("config: PORT must not be empty")
	}
	if c.ReminderInterval <= 0 {
		return errors.New("config: REMINDER_INTERVAL must be positive")
	}
	if c.ReminderLookahead <= 0 {
		return errors.New("config: REMINDER_LOOKAHEAD must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	if c.SeedDemo && c.SeedOwnerID == "" {
		return errors.New("config: SEED_OWNER_ID required when SEED_DEMO=true")
	}
	return nil
}
