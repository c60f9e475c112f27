package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_ProcessEnvironment(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("JWT_SECRET_KEY", "env-user")
	t.Setenv("ADMIN_SECRET_KEY", "env-admin")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "shh")
	t.Setenv("JWT_TTL", "45m")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("CORS_ORIGINS", "https://a.test,,https://b.test ")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "env-user", cfg.UserSecretKey)
	assert.Equal(t, "env-admin", cfg.AdminSecretKey)
	assert.Equal(t, "AKIA", cfg.AWSAccessKeyID)
	assert.Equal(t, "shh", cfg.AWSSecretAccessKey)
	assert.Equal(t, 45*time.Minute, cfg.UserTokenValidityDuration)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "users", cfg.UsersTable)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GOOGLE_CLIENT_ID=from-file\nS3_BUCKET=file-bucket\n"), 0o600))
	os.Args = []string{"testbin", "-env-file", path}

	t.Setenv("S3_BUCKET", "process-bucket")
	t.Cleanup(func() { os.Unsetenv("GOOGLE_CLIENT_ID") })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "from-file", cfg.GoogleClientID)
	assert.Equal(t, "process-bucket", cfg.S3Bucket)
}

func TestParseEnv_MissingExplicitFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-env-file", filepath.Join(t.TempDir(), "absent.env")}

	require.Panics(t, func() { parseEnv(&Config{}) })
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("PRESIGN_EXPIRY", "later")
	require.Panics(t, func() { parseEnv(&Config{}) })
}
