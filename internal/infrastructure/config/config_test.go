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
	for _, key := range []string{EnvSourcePath, EnvOutputPath, EnvLogPath, EnvConfigFile, EnvDataDir} {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := NewConfig()
	assert.Equal(t, filepath.Join(home, "Library", "Messages", "chat.db"), cfg.Source.Path)
	assert.Equal(t, filepath.Join(home, "Desktop", "iMessages_Export"), cfg.Output.Path)
	assert.Equal(t, filepath.Join(cfg.Output.Path, DebugLogName), cfg.Output.DebugLogPath())
	assert.False(t, cfg.Source.Snapshot)
	assert.False(t, cfg.Export.PreserveSourceExtension)
	assert.False(t, cfg.Export.CollapseAttachmentRows)
}

func TestNewConfig_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSourcePath, "/data/chat.db")
	t.Setenv(EnvOutputPath, "/data/out")
	t.Setenv(EnvLogPath, "/data/log.txt")

	cfg := NewConfig()
	assert.Equal(t, "/data/chat.db", cfg.Source.Path)
	assert.Equal(t, "/data/out", cfg.Output.Path)
	assert.Equal(t, "/data/log.txt", cfg.Output.DebugLogPath())
}

func TestNewConfig_EnvHomeExpanded(t *testing.T) {
	clearEnv(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv(EnvOutputPath, "~/exports")

	cfg := NewConfig()
	assert.Equal(t, filepath.Join(home, "exports"), cfg.Output.Path)
}

func TestSubConfigProviders(t *testing.T) {
	cfg := &Config{}
	assert.Same(t, &cfg.Source, NewSourceConfig(cfg))
	assert.Same(t, &cfg.Output, NewOutputConfig(cfg))
	assert.Same(t, &cfg.Export, NewExportConfig(cfg))
}
