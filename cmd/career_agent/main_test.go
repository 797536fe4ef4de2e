package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/llm"
)

// TestMain runs before all tests and loads .env if available
func TestMain(m *testing.M) {
	_ = godotenv.Load()
	os.Exit(m.Run())
}

// setupEnv points every backend at a temporary directory and returns it.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CAREER_DATA_DIR", filepath.Join(dir, "profiles"))
	t.Setenv("BACKUP_DIR", filepath.Join(dir, "backups"))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("BACKUP_S3_BUCKET", "")
	t.Setenv("BACKUP_S3_ACCESS_KEY", "")
	t.Setenv("BACKUP_S3_SECRET_KEY", "")
	return dir
}

func stubGenerator(t *testing.T, client llm.Client) {
	t.Helper()
	orig := newGenerationClient
	newGenerationClient = func(context.Context, *llm.Config, string) (llm.Client, error) {
		return client, nil
	}
	t.Cleanup(func() { newGenerationClient = orig })
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const adaJSON = `{
  "name": "Ada Lovelace",
  "career_field": "Data Science",
  "experience_level": "Intermediate",
  "goals": "Lead an ML team",
  "skill_assessment": {"Python": 7, "Statistics": 5}
}`

func importAda(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, "ada.json")
	require.NoError(t, os.WriteFile(path, []byte(adaJSON), 0644))
	out, err := execute(t, "", "profile", "import", path)
	require.NoError(t, err)
	require.Contains(t, out, "Imported 1 profile(s)")
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "interview", "assess", "gaps", "readiness", "profile", "backup"} {
		assert.Contains(t, names, want)
	}
}

func TestFlagsValidation(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{"gaps without role", []string{"gaps"}, "required"},
		{"readiness without source", []string{"readiness", "--role", "Data Scientist"}, "file"},
		{"readiness with both sources", []string{"readiness", "--role", "x", "--file", "a", "--url", "b"}, "file"},
		{"interview without role", []string{"interview"}, "required"},
		{"show without name", []string{"profile", "show"}, "arg"},
		{"unknown role", []string{"gaps", "--role", "Astronaut"}, "unknown role"},
		{"unknown topic", []string{"assess", "--topic", "Cooking"}, "unknown topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfigFile_Invalid(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 70000}`), 0644))

	_, err := execute(t, "", "--config", path, "profile", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}
