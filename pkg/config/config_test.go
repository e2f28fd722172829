package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg := Load(context.Background(), filepath.Join(t.TempDir(), "config.yaml"))
	assert.Equal(t, DefaultAgentKey, cfg.DefaultAgent)
	assert.False(t, cfg.AutoUpdate)
	assert.Empty(t, cfg.Agents)
}

func TestLoadCorruptFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{not yaml"), 0o644))

	cfg := Load(context.Background(), path)
	assert.Equal(t, DefaultAgentKey, cfg.DefaultAgent)
	assert.False(t, cfg.AutoUpdate)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &Config{
		DefaultAgent: "cursor",
		Agents:       []string{"claude", "cursor"},
		AutoUpdate:   true,
	}
	require.NoError(t, Save(cfg, path))

	loaded := Load(context.Background(), path)
	assert.Equal(t, cfg.DefaultAgent, loaded.DefaultAgent)
	assert.Equal(t, cfg.Agents, loaded.Agents)
	assert.True(t, loaded.AutoUpdate)
}

func TestSaveOverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, Save(&Config{DefaultAgent: "cursor", Agents: []string{"cursor"}}, path))
	require.NoError(t, Save(&Config{DefaultAgent: "claude"}, path))

	loaded := Load(context.Background(), path)
	assert.Equal(t, "claude", loaded.DefaultAgent)
	assert.Empty(t, loaded.Agents)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadFillsEmptyDefaultAgent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("autoUpdate: true\n"), 0o644))

	cfg := Load(context.Background(), path)
	assert.Equal(t, DefaultAgentKey, cfg.DefaultAgent)
	assert.True(t, cfg.AutoUpdate)
}
