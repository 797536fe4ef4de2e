// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/career-assistant/internal/llm"
)

// Config represents the application configuration. It can be loaded from a JSON
// file and overridden by environment variables and CLI flags.
// All fields are optional; missing values use Defaults.
type Config struct {
	// Storage
	DataDir     string `json:"data_dir,omitempty"`     // Directory holding one JSON file per profile
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL; when set, profiles live in Postgres
	RedisURL    string `json:"redis_url,omitempty"`    // Redis URL for the generation cache

	// Generation
	APIKey          string            `json:"api_key,omitempty"` // Gemini API key
	Models          map[string]string `json:"models,omitempty"`  // Tier name -> model override
	Timeout         Duration          `json:"timeout,omitempty"`
	Temperature     float32           `json:"temperature,omitempty"`
	MaxOutputTokens int32             `json:"max_output_tokens,omitempty"`
	CacheTTL        Duration          `json:"cache_ttl,omitempty"`

	// Server
	Port             int      `json:"port,omitempty"`
	SessionTTL       Duration `json:"session_ttl,omitempty"`
	RateLimit        *bool    `json:"rate_limit,omitempty"`
	RateLimitDefault int      `json:"rate_limit_default,omitempty"` // requests per minute per client
	UseBrowser       bool     `json:"use_browser,omitempty"`        // Render JS-heavy pages with headless Chrome

	// Backup
	Backup BackupConfig `json:"backup,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
}

// BackupConfig points backups at an S3-compatible bucket. An empty Bucket keeps backups local.
type BackupConfig struct {
	Dir       string `json:"dir,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
}

// Duration is a time.Duration that reads and writes as a Go duration string.
type Duration time.Duration

// MarshalJSON writes d as a string such as "45s".
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("duration must be a string or number of seconds")
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns the built-in configuration.
func Defaults() Config {
	enabled := true
	return Config{
		DataDir:          filepath.Join("data", "profiles"),
		Timeout:          Duration(llm.DefaultTimeout),
		Temperature:      llm.DefaultTemperature,
		MaxOutputTokens:  llm.DefaultMaxOutputTokens,
		CacheTTL:         Duration(24 * time.Hour),
		Port:             8080,
		SessionTTL:       Duration(2 * time.Hour),
		RateLimit:        &enabled,
		RateLimitDefault: 120,
		Backup:           BackupConfig{Dir: "backups", Region: "auto"},
		LogLevel:         "info",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the environment variables the application understands.
// getenv is usually os.Getenv. Unparseable numbers are reported as errors.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		DataDir:     getenv("CAREER_DATA_DIR"),
		DatabaseURL: getenv("DATABASE_URL"),
		RedisURL:    getenv("REDIS_URL"),
		APIKey:      getenv("GEMINI_API_KEY"),
		LogLevel:    getenv("LOG_LEVEL"),
		Backup: BackupConfig{
			Dir:       getenv("BACKUP_DIR"),
			Bucket:    getenv("BACKUP_S3_BUCKET"),
			Prefix:    getenv("BACKUP_S3_PREFIX"),
			Region:    getenv("BACKUP_S3_REGION"),
			Endpoint:  getenv("BACKUP_S3_ENDPOINT"),
			AccessKey: getenv("BACKUP_S3_ACCESS_KEY"),
			SecretKey: getenv("BACKUP_S3_SECRET_KEY"),
		},
	}

	for tier, key := range map[llm.ModelTier]string{
		llm.TierLite:     "GEMINI_MODEL_LITE",
		llm.TierStandard: "GEMINI_MODEL_STANDARD",
		llm.TierAdvanced: "GEMINI_MODEL_ADVANCED",
	} {
		if v := getenv(key); v != "" {
			if cfg.Models == nil {
				cfg.Models = map[string]string{}
			}
			cfg.Models[string(tier)] = v
		}
	}

	var err error
	if cfg.Timeout, err = envDuration(getenv, "LLM_TIMEOUT"); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL, err = envDuration(getenv, "LLM_CACHE_TTL"); err != nil {
		return cfg, err
	}
	if cfg.SessionTTL, err = envDuration(getenv, "INTERVIEW_SESSION_TTL"); err != nil {
		return cfg, err
	}
	if cfg.Port, err = envInt(getenv, "PORT"); err != nil {
		return cfg, err
	}
	if cfg.RateLimitDefault, err = envInt(getenv, "RATE_LIMIT_DEFAULT"); err != nil {
		return cfg, err
	}
	if v := getenv("RATE_LIMIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("RATE_LIMIT_ENABLED: %w", err)
		}
		cfg.RateLimit = &b
	}
	if v := getenv("USE_BROWSER"); v != "" {
		cfg.UseBrowser, _ = strconv.ParseBool(v)
	}
	return cfg, nil
}

func envDuration(getenv func(string) string, key string) (Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return Duration(d), nil
}

func envInt(getenv func(string) string, key string) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Load resolves the effective configuration: environment over file over defaults.
// An empty path skips the file.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = file.MergeWithDefaults(cfg)
	}
	env, err := FromEnv(getenv)
	if err != nil {
		return Config{}, err
	}
	cfg = env.MergeWithDefaults(cfg)
	return cfg, cfg.Validate()
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Timeout < 0 || c.CacheTTL < 0 || c.SessionTTL < 0 {
		return fmt.Errorf("config error: durations must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("config error: 'max_output_tokens' must be non-negative")
	}
	if c.RateLimitDefault < 0 {
		return fmt.Errorf("config error: 'rate_limit_default' must be non-negative")
	}
	for tier := range c.Models {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}
	if (c.Backup.AccessKey == "") != (c.Backup.SecretKey == "") {
		return fmt.Errorf("config error: backup access_key and secret_key must be set together")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	models := make(map[string]string, len(defaults.Models)+len(c.Models))
	for k, v := range defaults.Models {
		models[k] = v
	}
	for k, v := range c.Models {
		models[k] = v
	}
	if len(models) > 0 {
		result.Models = models
	}

	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.SessionTTL == 0 {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimit == nil {
		result.RateLimit = defaults.RateLimit
	}
	if result.RateLimitDefault == 0 {
		result.RateLimitDefault = defaults.RateLimitDefault
	}
	// Bools cannot distinguish unset from false, so either side enables the browser.
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser

	b, d := &result.Backup, defaults.Backup
	if b.Dir == "" {
		b.Dir = d.Dir
	}
	if b.Bucket == "" {
		b.Bucket = d.Bucket
	}
	if b.Prefix == "" {
		b.Prefix = d.Prefix
	}
	if b.Region == "" {
		b.Region = d.Region
	}
	if b.Endpoint == "" {
		b.Endpoint = d.Endpoint
	}
	if b.AccessKey == "" {
		b.AccessKey = d.AccessKey
		b.SecretKey = d.SecretKey
	}

	return result
}

// RateLimitEnabled reports whether request rate limiting is on.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimit == nil || *c.RateLimit
}

// LLMConfig builds the generation client configuration.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	for tier, model := range c.Models {
		cfg = cfg.WithModel(llm.ModelTier(tier), model)
	}
	if c.Temperature > 0 {
		cfg.Temperature = c.Temperature
	}
	if c.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = c.MaxOutputTokens
	}
	return cfg
}
