package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  mode: release
database:
  url: postgres://localhost:5432/saratovquest
  maxConnections: 25
jwt:
  secret: supersecret
  expiryDays: 30
openai:
  apiKey: sk-test
  model: gpt-4
cors:
  allowOrigins:
    - http://localhost:3000
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "postgres://localhost:5432/saratovquest", cfg.Database.URL)
	assert.Equal(t, 25, cfg.Database.MaxConnections)
	assert.Equal(t, "supersecret", cfg.JWT.Secret)
	assert.Equal(t, 30, cfg.JWT.ExpiryDays)
	assert.Equal(t, "gpt-4", cfg.Openai.Model)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Cors.AllowOrigins)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost:5432/saratovquest
jwt:
  secret: supersecret
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Database.MaxConnections)
	assert.Equal(t, "./migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, 7, cfg.JWT.ExpiryDays)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Openai.Model)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yml")
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
