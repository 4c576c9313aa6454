package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Configuration is read from a JSON (or YAML) file; every field can be
// overridden from the environment. Secrets should only come from env.
type Configuration struct {
	ApiPort        string `json:"api_port" yaml:"api_port" env:"PORT" env-default:"8080"`
	LogPath        string `json:"log_path" yaml:"log_path" env:"LOG_PATH" env-default:""`
	Env            string `json:"env" yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	AllowedOrigins string `json:"allowed_origins" yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"*"`

	Database    string `json:"database" yaml:"database" env:"DATABASE" env-default:"sqlite3"` // "sqlite3", "postgres" ou "memory"
	DbPath      string `json:"db_path" yaml:"db_path" env:"DB_PATH" env-default:"db/database.db"`
	DbHost      string `json:"db_host" yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DbPort      string `json:"db_port" yaml:"db_port" env:"DB_PORT" env-default:"5432"`
	DbUser      string `json:"db_user" yaml:"db_user" env:"DB_USER" env-default:"amomaster"`
	DbName      string `json:"db_name" yaml:"db_name" env:"DB_NAME" env-default:"amomaster"`
	DbPass      string `json:"-" yaml:"-" env:"DB_PASS"`
	DbDebug     bool   `json:"db_debug" yaml:"db_debug" env:"DB_DEBUG" env-default:"false"`
	AutoMigrate bool   `json:"automigrate" yaml:"automigrate" env:"AUTOMIGRATE" env-default:"false"`

	Security SecurityConfig `json:"security" yaml:"security"`
	AI       AIConfig       `json:"ai" yaml:"ai"`
	Rag      RagConfig      `json:"rag" yaml:"rag"`
	Workers  WorkersConfig  `json:"workers" yaml:"workers"`
}

type SecurityConfig struct {
	JwtSecret        string `json:"-" yaml:"-" env:"JWT_SECRET" env-default:"CHANGE_ME"`
	AccessTTLMinutes int    `json:"access_ttl_minutes" yaml:"access_ttl_minutes" env:"JWT_ACCESS_TTL_MINUTES" env-default:"1440"`
	RefreshTTLDays   int    `json:"refresh_ttl_days" yaml:"refresh_ttl_days" env:"JWT_REFRESH_TTL_DAYS" env-default:"30"`
}

// AIConfig configures the OpenAI-compatible endpoint and the usage quota.
type AIConfig struct {
	ApiKey      string  `json:"-" yaml:"-" env:"OPENAI_API_KEY"`
	BaseURL     string  `json:"base_url" yaml:"base_url" env:"OPENAI_BASE_URL" env-default:""`
	Model       string  `json:"model" yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	Temperature float32 `json:"temperature" yaml:"temperature" env:"OPENAI_TEMPERATURE" env-default:"0.7"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens" env:"OPENAI_MAX_TOKENS" env-default:"512"`

	DailyLimit int `json:"daily_limit" yaml:"daily_limit" env:"AI_DAILY_LIMIT" env-default:"3"`
	TrialDays  int `json:"trial_days" yaml:"trial_days" env:"AI_TRIAL_DAYS" env-default:"30"`

	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second" env:"AI_RATE_PER_SECOND" env-default:"1"`
	RateBurst     int     `json:"rate_burst" yaml:"rate_burst" env:"AI_RATE_BURST" env-default:"5"`
}

// Enabled reports whether an API key is configured.
func (c AIConfig) Enabled() bool {
	return strings.TrimSpace(c.ApiKey) != ""
}

type RagConfig struct {
	Limit    int    `json:"limit" yaml:"limit" env:"RAG_LIMIT" env-default:"10"`
	Timezone string `json:"timezone" yaml:"timezone" env:"RAG_TIMEZONE" env-default:"Asia/Tokyo"`
}

type WorkersConfig struct {
	DiaryIntervalSeconds int `json:"diary_interval_seconds" yaml:"diary_interval_seconds" env:"DIARY_INTERVAL_SECONDS" env-default:"2"`
	DiaryBatchSize       int `json:"diary_batch_size" yaml:"diary_batch_size" env:"DIARY_BATCH_SIZE" env-default:"20"`
}

// Get loads the configuration file at path. A missing file is not an error:
// the configuration is then built from environment variables and defaults.
func Get(path string) (Configuration, error) {
	var c Configuration

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &c); err != nil {
				return c, fmt.Errorf("read config %s: %w", path, err)
			}
			return c, c.validate()
		}
	}

	if err := cleanenv.ReadEnv(&c); err != nil {
		return c, fmt.Errorf("read env: %w", err)
	}
	return c, c.validate()
}

func (c Configuration) validate() error {
	switch c.Database {
	case "sqlite3", "postgres", "postgresql", "memory":
	default:
		return fmt.Errorf("unsupported database %q", c.Database)
	}
	if c.Rag.Limit <= 0 {
		return fmt.Errorf("rag.limit must be positive")
	}
	if c.AI.DailyLimit < 0 || c.AI.TrialDays < 0 {
		return fmt.Errorf("ai quota values must not be negative")
	}
	return nil
}

// IsLocal reports whether the server runs in local development mode.
func (c Configuration) IsLocal() bool {
	return c.Env == "" || c.Env == "local"
}
