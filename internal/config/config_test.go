package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "PORT", "SERVER_ENV", "NODE_ENV", "CORS_ORIGINS",
		"DATABASE_DRIVER", "DATABASE_URL", "JWT_SECRET", "ADMIN_JWT_SECRET",
		"EMAIL_USER", "EMAIL_PASS", "EMAIL_FROM", "REDIS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, `
server:
  port: 8080
  env: production
database:
  driver: sqlite
  url: file::memory:
jwt:
  secret: yaml-secret
email:
  smtp_user: robot@example.com
  smtp_password: pass
roles:
  limits:
    HR: 3
`))
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 3, cfg.Roles.Limits["HR"])
	assert.Equal(t, DefaultRoleLimits()["Manager"], cfg.Roles.Limits["Manager"])
	assert.Equal(t, "yaml-secret-admin", cfg.Admin.JWTSecret)
	assert.Equal(t, "robot@example.com", cfg.Email.FromEmail)
	assert.True(t, cfg.EmailConfigured())
	assert.Same(t, cfg, AppConfig)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("DATABASE_URL", "postgres://localhost/hiring")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, DefaultRoleLimits(), cfg.Roles.Limits)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxSize)
	assert.False(t, cfg.EmailConfigured())
}

func TestLoadConfig_RequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "database url")

	t.Setenv("DATABASE_URL", "postgres://localhost/hiring")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "jwt secret")
}

func TestLoadConfig_BadYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, "server: [unclosed"))

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "failed to parse config file")
}
