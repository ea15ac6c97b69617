package main

import (
	"os"
	"path/filepath"
	"testing"

	"fraudguard-launcher/internal/cfg"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	setupLogging("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	setupLogging("loud")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInitializeStorage(t *testing.T) {
	assert.Nil(t, initializeStorage(cfg.Settings{}))

	dir := t.TempDir()
	store := initializeStorage(cfg.Settings{DataPath: dir})
	require.NotNil(t, store)
	defer store.Close()

	_, err := os.Stat(filepath.Join(dir, "launcher-runs.db"))
	assert.NoError(t, err)
}

func TestInitializeStorage_Unusable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	assert.Nil(t, initializeStorage(cfg.Settings{DataPath: file}))
}

func TestLauncherDir(t *testing.T) {
	dir := launcherDir()
	assert.True(t, filepath.IsAbs(dir))
}
