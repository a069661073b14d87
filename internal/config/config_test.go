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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  host: db.internal
  op_timeout: 3s
jwt:
  secret: s3cret
app:
  timezone: Asia/Ho_Chi_Minh
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 3*time.Second, cfg.Database.OpTimeout)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "love_session", cfg.JWT.CookieName)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.App.Location().String())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: from-file
aws:
  s3_bucket: file-bucket
`)
	t.Setenv("LOVE_JWT_SECRET", "from-env")
	t.Setenv("LOVE_AWS_S3_BUCKET", "env-bucket")
	t.Setenv("LOVE_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "env-bucket", cfg.AWS.S3Bucket)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("LOVE_JWT_SECRET", "x")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.App.Timezone)
}

func TestLoad_RequiresSecret(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "jwt.secret")
}

func TestValidate_RejectsUnknownTimezone(t *testing.T) {
	cfg := Default()
	cfg.JWT.Secret = "x"
	cfg.App.Timezone = "Mars/Olympus"

	assert.Error(t, cfg.Validate())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.host", envKey("LOVE_DATABASE_HOST"))
	assert.Equal(t, "aws.s3_bucket", envKey("LOVE_AWS_S3_BUCKET"))
	assert.Equal(t, "server.allowed_origins", envKey("LOVE_SERVER_ALLOWED_ORIGINS"))
}

func TestDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.Password = "pw"

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=pw dbname=love_journal sslmode=disable connect_timeout=10",
		cfg.Database.DSN())
}
