package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibler-backend/internal/media"
	"bibler-backend/internal/platform/db"
)

func write(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(write(t, "database:\n  driver: sqlite\n"))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Mode)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "data/bibler.db", cfg.DB.Path)
	assert.Equal(t, ":8443", cfg.Server.Addr)
	assert.Equal(t, "static", cfg.Server.StaticDir)
	assert.Equal(t, media.DriverFS, cfg.Media.Driver)
	assert.Equal(t, "data/media", cfg.Media.Dir)
	assert.False(t, cfg.TLS())
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(write(t, `
mode: release
database:
  host: db
  port: 3306
  user: bibler
  password: secret
  dbname: bibler
certificate:
  cert: server.crt
  key: server.key
media:
  driver: s3
  bucket: covers
  path_style: true
cors:
  allow_origins: [https://bibler.example]
`))
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.Equal(t, db.DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, "bibler", cfg.DB.Name())
	assert.True(t, cfg.TLS())
	assert.True(t, cfg.Media.PathStyle)
	assert.Equal(t, "covers/", cfg.Media.Prefix)
	assert.Equal(t, []string{"https://bibler.example"}, cfg.CORS.AllowOrigins)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"mode":      "mode: staging\n",
		"driver":    "database:\n  driver: postgres\n",
		"media":     "media:\n  driver: ftp\n",
		"s3 bucket": "media:\n  driver: s3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}
