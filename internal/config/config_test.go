package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/llm"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"data_dir": "/var/lib/career",
		"port": 9090,
		"timeout": "45s",
		"cache_ttl": 3600,
		"models": {"lite": "gemini-lite-test"},
		"backup": {"bucket": "career-backups", "prefix": "nightly"}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/var/lib/career", cfg.DataDir)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.Timeout.Std())
	assert.Equal(t, time.Hour, cfg.CacheTTL.Std())
	assert.Equal(t, "gemini-lite-test", cfg.Models["lite"])
	assert.Equal(t, "career-backups", cfg.Backup.Bucket)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_BadDuration(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"timeout": "soon"}`), 0644))

	_, err := LoadConfig(tmpFile)
	assert.Error(t, err)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DATABASE_URL":          "postgres://localhost/career",
		"GEMINI_API_KEY":        "key",
		"GEMINI_MODEL_ADVANCED": "gemini-pro-test",
		"PORT":                  "3000",
		"LLM_TIMEOUT":           "1m",
		"RATE_LIMIT_ENABLED":    "false",
		"BACKUP_S3_BUCKET":      "b",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/career", cfg.DatabaseURL)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "gemini-pro-test", cfg.Models["advanced"])
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, time.Minute, cfg.Timeout.Std())
	assert.False(t, cfg.RateLimitEnabled())
	assert.Equal(t, "b", cfg.Backup.Bucket)
}

func TestFromEnv_Invalid(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"PORT": "eighty"}))
	assert.ErrorContains(t, err, "PORT")

	_, err = FromEnv(envMap(map[string]string{"LLM_TIMEOUT": "10"}))
	assert.ErrorContains(t, err, "LLM_TIMEOUT")
}

func TestLoad_Precedence(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"port": 9090, "data_dir": "from-file"}`), 0644))

	cfg, err := Load(tmpFile, envMap(map[string]string{"PORT": "7070"}))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port, "env wins over file")
	assert.Equal(t, "from-file", cfg.DataDir, "file wins over defaults")
	assert.Equal(t, Defaults().SessionTTL, cfg.SessionTTL)
	assert.True(t, cfg.RateLimitEnabled())
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"port out of range", Config{Port: 70000}},
		{"negative timeout", Config{Timeout: Duration(-time.Second)}},
		{"temperature too high", Config{Temperature: 3}},
		{"negative tokens", Config{MaxOutputTokens: -1}},
		{"unknown tier", Config{Models: map[string]string{"turbo": "x"}}},
		{"half credentials", Config{Backup: BackupConfig{AccessKey: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		Port:   9090,
		Models: map[string]string{"lite": "custom-lite"},
	}
	defaults := Defaults()
	defaults.Models = map[string]string{"lite": "default-lite", "advanced": "default-advanced"}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, defaults.DataDir, merged.DataDir)
	assert.Equal(t, defaults.Timeout, merged.Timeout)
	assert.Equal(t, "custom-lite", merged.Models["lite"])
	assert.Equal(t, "default-advanced", merged.Models["advanced"])
	assert.Equal(t, "backups", merged.Backup.Dir)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{DataDir: "profiles", Port: 8000}
	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "profiles", merged.DataDir)
	assert.Equal(t, 8000, merged.Port)
	assert.Nil(t, merged.Models)
	assert.True(t, merged.RateLimitEnabled())
}

func TestLLMConfig(t *testing.T) {
	cfg := Config{Models: map[string]string{"lite": "tiny"}, Temperature: 0.2}
	lc := cfg.LLMConfig()

	assert.Equal(t, "tiny", lc.GetModel(llm.TierLite))
	assert.Equal(t, float32(0.2), lc.Temperature)
}
