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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func load(t *testing.T, body string) (*Config, error) {
	t.Helper()
	v, err := LoadConfig(writeConfig(t, body))
	require.NoError(t, err)
	return ParseConfig(v)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := load(t, "server:\n  Mode: Development\n")
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Server.BaseURL)
	assert.Equal(t, StatusDriverRedis, cfg.StatusStore.Driver)
	assert.Equal(t, BlobDriverS3, cfg.Blob.Driver)
	assert.Equal(t, "videos-hls", cfg.Blob.KeyPrefix)
	assert.Equal(t, DefaultTranscodeTimeout, cfg.Transcoder.Timeout)
	assert.Equal(t, 6, cfg.Transcoder.SegmentSeconds)
	assert.Equal(t, 4, cfg.Upload.Concurrency)
	assert.Equal(t, int64(50*1024*1024), cfg.Upload.MaxFileSize)
	assert.Equal(t, 10*time.Second, cfg.Worker.CPUCheckInterval)
}

func TestParseConfig_ZeroTimeoutIsKept(t *testing.T) {
	cfg, err := load(t, "transcoder:\n  Timeout: 0s\n")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Transcoder.Timeout)

	cfg, err = load(t, "transcoder:\n  Timeout: 90s\n")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Transcoder.Timeout)
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := load(t, `
statusStore:
  Driver: postgres
blob:
  Driver: minio
  KeyPrefix: hls
upload:
  Concurrency: 8
`)
	require.NoError(t, err)
	assert.Equal(t, StatusDriverPostgres, cfg.StatusStore.Driver)
	assert.Equal(t, BlobDriverMinIO, cfg.Blob.Driver)
	assert.Equal(t, "hls", cfg.Blob.KeyPrefix)
	assert.Equal(t, 8, cfg.Upload.Concurrency)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := load(t, "statusStore:\n  Driver: cassandra\n")
	assert.Error(t, err)

	_, err = load(t, "upload:\n  Concurrency: 500\n")
	assert.Error(t, err)

	_, err = load(t, "worker:\n  MaxCPUUsage: 150\n")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
