package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reliefsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromPath_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
reconcile:
  interval: 30s
sync:
  peerURL: https://hq.example.org
  token: s3cret
  interval: 2m
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Reconcile.Interval)
	assert.Equal(t, "https://hq.example.org", cfg.Sync.PeerURL)
	assert.Equal(t, "s3cret", cfg.Sync.Token)
	assert.Equal(t, 2*time.Minute, cfg.Sync.Interval)

	// Untouched settings keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultPeerTimeout, cfg.Sync.Timeout)
	assert.Equal(t, DefaultPushQueueSize, cfg.Sync.PushQueueSize)
	assert.Equal(t, DefaultNotifyQueueSize, cfg.Notify.QueueSize)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
}

func TestLoadFromPath_PeerWithoutToken(t *testing.T) {
	path := writeConfig(t, `
sync:
  peerURL: https://hq.example.org
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad peer url", "sync:\n  peerURL: not a url\n  token: x\n"},
		{"interval too short", "reconcile:\n  interval: 10ms\n"},
		{"non numeric port", "server:\n  port: http\n"},
		{"empty queue", "notify:\n  queueSize: 0\n"},
		{"pool min above max", "database:\n  maxConns: 2\n  minConns: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestLoadFromPath_MalformedYAML(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "server: [port"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
