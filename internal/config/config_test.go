package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "token", cfg.TelegramAPIToken)
	assert.Equal(t, "quiz2024", cfg.AccessPassword)
	assert.Equal(t, "questions.csv", cfg.Questions.Source)
	assert.Equal(t, "./", cfg.Questions.ImagePrefix)
	assert.False(t, cfg.Questions.StrictCorrect)
	assert.Equal(t, 1500*time.Millisecond, cfg.Quiz.AutoAdvanceDelay)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, DriverMemory, cfg.Results.Driver)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
env: production
questions:
  source: data/quiz.csv
  strict_correct: true
quiz:
  auto_advance_delay: 2s
results:
  driver: postgres
`)
	t.Setenv("DATABASE_URL", "postgres://quiz@localhost/quiz")
	t.Setenv("QUIZ_ACCESS_PASSWORD", "open-sesame")

	cfg, err := load(dir)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "data/quiz.csv", cfg.Questions.Source)
	assert.True(t, cfg.Questions.StrictCorrect)
	assert.Equal(t, 2*time.Second, cfg.Quiz.AutoAdvanceDelay)
	assert.Equal(t, "open-sesame", cfg.AccessPassword)

	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://quiz@localhost/quiz", dsn)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "no delivery configured",
			body:    "http:\n  addr: \"\"\n",
			wantErr: ErrNoDelivery,
		},
		{
			name:    "postgres without database url",
			body:    "results:\n  driver: postgres\n",
			wantErr: ErrMissingEnvironmentVariables,
		},
		{
			name:    "unknown driver",
			body:    "results:\n  driver: mongo\n",
			wantErr: ErrUnknownResultsDriver,
		},
	}

	t.Setenv("TELEGRAM_API_TOKEN", "")
	t.Setenv("DATABASE_URL", "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDSNMissing(t *testing.T) {
	_, err := DB{}.DSN()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}
