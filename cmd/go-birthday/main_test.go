package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-birthday-web/internal/config"
)

func TestRunMain_BadFlags(t *testing.T) {
	assert.Equal(t, config.ExitCodeError, runMain([]string{"--db-driver=mysql"}))
}

func TestGetLogFilePath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME only drives os.UserCacheDir on Linux")
	}
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	path, err := getLogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cache, config.AppID, config.LogFileName), path)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, config.DirPermUserRWX, info.Mode().Perm())
}

func TestSetupLogging(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	assert.Nil(t, setupLogging(false, false), "no file means nothing to close")

	closer := setupLogging(true, true)
	if runtime.GOOS == "linux" {
		require.NotNil(t, closer)
		assert.NoError(t, closer.Close())
	}
}
