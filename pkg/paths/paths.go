// Package paths provides path resolution for vibediary data.
//
// Resolution order for the home directory:
// 1. VIBE_DIARY_HOME (portable root)
// 2. ~/.claude/vibe-diary
//
// Sessions, posts, logs, the .env file and the state ledger all live under home
// unless the configuration overrides the sessions and posts directories.
package paths

import (
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the vibediary home directory.
const HomeEnvVar = "VIBE_DIARY_HOME"

// Home returns the vibediary home directory.
func Home() string {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".claude", "vibe-diary")
	}
	return ""
}

// SessionsDir returns the default directory holding per-session activity logs.
func SessionsDir() string {
	return filepath.Join(Home(), "sessions")
}

// PostsDir returns the default directory holding generated diary posts.
func PostsDir() string {
	return filepath.Join(Home(), "posts")
}

// LogsDir returns the directory for the tool's own structured logs.
func LogsDir() string {
	return filepath.Join(Home(), "logs")
}

// EnvFile returns the path to the optional .env file loaded at startup.
func EnvFile() string {
	return filepath.Join(Home(), ".env")
}

// StateFile returns the path to the generation ledger.
func StateFile() string {
	return filepath.Join(Home(), "state.yml")
}

// ConfigCandidates returns the config file names searched in order.
func ConfigCandidates() []string {
	home := Home()
	return []string{
		filepath.Join(home, "config.yml"),
		filepath.Join(home, "config.yaml"),
		filepath.Join(home, "config.toml"),
	}
}

// EnsureDirs creates the given directories if they don't exist.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
