package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnvVar, dir)

	assert.Equal(t, dir, Home())
	assert.Equal(t, filepath.Join(dir, "sessions"), SessionsDir())
	assert.Equal(t, filepath.Join(dir, "posts"), PostsDir())
	assert.Equal(t, filepath.Join(dir, "logs"), LogsDir())
	assert.Equal(t, filepath.Join(dir, ".env"), EnvFile())
	assert.Equal(t, filepath.Join(dir, "state.yml"), StateFile())
	assert.Equal(t, filepath.Join(dir, "config.yml"), ConfigCandidates()[0])
}

func TestHomeDefault(t *testing.T) {
	t.Setenv(HomeEnvVar, "")
	userHome, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(userHome, ".claude", "vibe-diary"), Home())
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a", "b")
	c := filepath.Join(dir, "c")

	require.NoError(t, EnsureDirs(a, "", c))

	for _, d := range []string{a, c} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
