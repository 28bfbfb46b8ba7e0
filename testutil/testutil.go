// Package testutil holds helpers shared by command and package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/logging"
	"github.com/grovetools/vibediary/pkg/paths"
	"github.com/stretchr/testify/require"
)

// IsolateHome points the diary home at a fresh temp dir and clears every
// variable that would leak the developer's setup into the test. Cached
// loggers are dropped so they re-read the isolated home.
func IsolateHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv(paths.HomeEnvVar, home)
	for _, v := range []string{
		config.EnvSessionsDir, config.EnvPostsDir, config.EnvProviders,
		config.EnvAnthropicKey, config.EnvGeminiKey, config.EnvOpenAIKey,
		logging.EnvLogLevel, logging.EnvDebug,
	} {
		t.Setenv(v, "")
	}

	logging.Reset()
	t.Cleanup(logging.Reset)
	return home
}

// WriteConfig writes config.yml into the diary home.
func WriteConfig(t *testing.T, home, content string) string {
	t.Helper()

	path := filepath.Join(home, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteSessionLog writes a session log made of the given lines.
func WriteSessionLog(t *testing.T, dir, sessionID string, lines ...string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, sessionID+".jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// ReadLines returns the non-empty lines of a file.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
