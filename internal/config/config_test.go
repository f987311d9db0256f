package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hololoop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
session_id: lab-headset
frame_rate: 90
fixed_timestep: 11ms
store:
  backend: redis
  redis:
    addr: redis:6379
    ttl: 1h
content:
  distance: 1.5
speech:
  commands:
    "Come Here": reposition
  min_confidence: high
sim:
  locatability: degraded
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lab-headset", cfg.SessionID)
	assert.Equal(t, 90, cfg.FrameRate)
	assert.Equal(t, 11*time.Millisecond, cfg.FixedTimeStep)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "hololoop:state:", cfg.Store.Redis.Prefix, "unset nested fields keep defaults")
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, 1.5, cfg.Content.Distance)
	assert.Equal(t, 45.0, cfg.Content.DegreesPerSecond)
	assert.Equal(t, time.Second/90, cfg.FrameInterval())

	cmds, err := cfg.SpeechCommands()
	require.NoError(t, err)
	assert.Equal(t, domain.CommandReposition, cmds["come here"])
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":        "frame_rate: [",
		"zero frame rate": "frame_rate: 0",
		"bad backend":     "store:\n  backend: floppy",
		"bad key":         "store:\n  encryption_key: abc",
		"short key":       "store:\n  encryption_key: " + strings.Repeat("ab", 8),
		"bad command":     "speech:\n  commands:\n    dance: boogie",
		"bad confidence":  "speech:\n  min_confidence: certain",
		"bad tracking":    "sim:\n  locatability: psychic",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestEncryptionKey(t *testing.T) {
	cfg := Default()
	key, err := cfg.EncryptionKey()
	require.NoError(t, err)
	assert.Nil(t, key)

	cfg.Store.EncryptionKey = strings.Repeat("0f", 32)
	key, err = cfg.EncryptionKey()
	require.NoError(t, err)
	assert.Len(t, key, 32)
}
