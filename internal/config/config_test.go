package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.MonteCarlo.Trials)
}

func TestLoad_FileOverridesDefaultsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syncrun.yaml")
	data := `
server:
  port: 9090
engine:
  strict: true
monte_carlo:
  risk_weight: 12.5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Engine.Strict)
	assert.Equal(t, 12.5, cfg.MonteCarlo.RiskWeight)

	// Everything untouched keeps its default.
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 0.85, cfg.Debate.Vulnerability["article-356"])
}

func TestLoad_RejectsBadPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syncrun.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEngineSettings_ConvertsSeconds(t *testing.T) {
	cfg := Default()
	cfg.Engine.CacheTTLSeconds = 120

	assert.Equal(t, 2*time.Minute, cfg.EngineSettings().CacheTTL)
}
