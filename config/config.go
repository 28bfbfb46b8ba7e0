package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/grovetools/vibediary/errors"
	"github.com/grovetools/vibediary/pkg/paths"
	"github.com/grovetools/vibediary/util/pathutil"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted when building a Config.
const (
	EnvSessionsDir = "VIBE_DIARY_SESSIONS_DIR"
	EnvPostsDir    = "VIBE_DIARY_POSTS_DIR"
	EnvProviders   = "VIBE_DIARY_PROVIDERS"

	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvOpenAIKey    = "OPENAI_API_KEY"
)

// KeyEnvVar returns the environment variable holding a provider's API key.
func KeyEnvVar(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return EnvAnthropicKey
	case ProviderGemini:
		return EnvGeminiKey
	case ProviderOpenAI:
		return EnvOpenAIKey
	}
	return ""
}

// DefaultProviderTimeout bounds a single provider call when providers.timeout is unset.
const DefaultProviderTimeout = 120 * time.Second

// Format identifies a configuration file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Version:     "1.0",
		SessionsDir: paths.SessionsDir(),
		PostsDir:    paths.PostsDir(),
		LoggedTools: []string{"Write", "Edit", "Bash", "Grep", "Glob", "WebSearch", "WebFetch", "Task"},
		Diary: DiaryConfig{
			MinRecords:  3,
			BaseTags:    []string{"vibe-coding", "claude-code"},
			TitlePrefix: "Developer Diary: ",
		},
		Providers: ProvidersConfig{
			Order:   []string{ProviderAnthropic, ProviderGemini},
			Timeout: DefaultProviderTimeout.String(),
			Anthropic: ProviderConfig{
				Model:     "claude-sonnet-4-20250514",
				MaxTokens: 1024,
			},
			Gemini: ProviderConfig{
				Model: "gemini-2.0-flash-exp",
			},
			OpenAI: ProviderConfig{
				Model:     "gpt-4o-mini",
				MaxTokens: 1024,
			},
		},
	}
}

// SetDefaults fills zero-valued fields from Defaults.
func (c *Config) SetDefaults() {
	d := Defaults()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.SessionsDir == "" {
		c.SessionsDir = d.SessionsDir
	}
	if c.PostsDir == "" {
		c.PostsDir = d.PostsDir
	}
	if c.LoggedTools == nil {
		c.LoggedTools = d.LoggedTools
	}
	if c.Diary.MinRecords == 0 {
		c.Diary.MinRecords = d.Diary.MinRecords
	}
	if c.Diary.BaseTags == nil {
		c.Diary.BaseTags = d.Diary.BaseTags
	}
	if c.Diary.TitlePrefix == "" {
		c.Diary.TitlePrefix = d.Diary.TitlePrefix
	}
	if len(c.Providers.Order) == 0 {
		c.Providers.Order = d.Providers.Order
	}
	if c.Providers.Timeout == "" {
		c.Providers.Timeout = d.Providers.Timeout
	}
	fillProvider(&c.Providers.Anthropic, d.Providers.Anthropic)
	fillProvider(&c.Providers.Gemini, d.Providers.Gemini)
	fillProvider(&c.Providers.OpenAI, d.Providers.OpenAI)
}

func fillProvider(p *ProviderConfig, d ProviderConfig) {
	if p.Model == "" {
		p.Model = d.Model
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = d.MaxTokens
	}
}

// Load reads and parses the configuration file at path. The format is
// chosen from the file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatForPath(path))
	if err != nil {
		if de, ok := err.(*errors.DiaryError); ok {
			return nil, de.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the .env file from the diary home, then the first
// config file found there. With no config file the defaults are used.
func LoadDefault() (*Config, error) {
	return LoadWithLogger("", logrus.New())
}

// LoadWithLogger loads configuration from explicitPath, or from the default
// candidates when explicitPath is empty, logging what it finds.
func LoadWithLogger(explicitPath string, logger *logrus.Logger) (*Config, error) {
	LoadEnvFile(logger)

	if explicitPath != "" {
		logger.WithField("path", explicitPath).Debug("Loading configuration")
		return Load(explicitPath)
	}

	if path := FindConfigFile(); path != "" {
		logger.WithField("path", path).Debug("Loading configuration")
		return Load(path)
	}

	logger.Debug("No configuration file found, using defaults")
	cfg := &Config{}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads <home>/.env without overriding variables already set.
func LoadEnvFile(logger *logrus.Logger) {
	envFile := paths.EnvFile()
	if _, err := os.Stat(envFile); err != nil {
		return
	}
	if err := gotenv.Load(envFile); err != nil {
		logger.WithError(err).WithField("path", envFile).Warn("Failed to load .env file, continuing without it")
		return
	}
	logger.WithField("path", envFile).Debug("Loaded .env file")
}

// LoadFromBytes parses configuration from a byte array in the given format.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	// Expand environment variables
	expanded := []byte(expandEnvVars(string(data)))

	var cfg Config
	var raw map[string]interface{}
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		if err := toml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		cfg.Extensions = extensionsFrom(raw)
	default:
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
		if err := yaml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}

	// Validate the document as written so unknown nested keys are caught.
	if raw != nil {
		validator, err := NewSchemaValidator()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
		}
		if err := validator.Validate(raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finish applies environment overrides and defaults, resolves paths,
// reads credentials and validates the result.
func (c *Config) finish() error {
	c.applyEnvOverrides()
	c.SetDefaults()

	var err error
	if c.SessionsDir, err = pathutil.Expand(c.SessionsDir); err != nil {
		return errors.ConfigInvalid("sessions_dir: " + err.Error())
	}
	if c.PostsDir, err = pathutil.Expand(c.PostsDir); err != nil {
		return errors.ConfigInvalid("posts_dir: " + err.Error())
	}

	c.Providers.Anthropic.APIKey = os.Getenv(KeyEnvVar(ProviderAnthropic))
	c.Providers.Gemini.APIKey = os.Getenv(KeyEnvVar(ProviderGemini))
	c.Providers.OpenAI.APIKey = os.Getenv(KeyEnvVar(ProviderOpenAI))

	if err := c.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "semantic validation failed")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvSessionsDir); v != "" {
		c.SessionsDir = v
	}
	if v := os.Getenv(EnvPostsDir); v != "" {
		c.PostsDir = v
	}
	if v := os.Getenv(EnvProviders); v != "" {
		var order []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				order = append(order, strings.ToLower(name))
			}
		}
		c.Providers.Order = order
	}
}

// FindConfigFile returns the first existing config candidate in the diary
// home, or "" when there is none.
func FindConfigFile() string {
	for _, path := range paths.ConfigCandidates() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FormatForPath picks the decoder for a config file by extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// extensionsFrom keeps the top-level keys of raw that Config does not define.
func extensionsFrom(raw map[string]interface{}) map[string]interface{} {
	known := map[string]bool{
		"version": true, "sessions_dir": true, "posts_dir": true, "logged_tools": true,
		"exclude_paths": true, "diary": true, "providers": true,
	}
	var ext map[string]interface{}
	for k, v := range raw {
		if known[k] {
			continue
		}
		if ext == nil {
			ext = make(map[string]interface{})
		}
		ext[k] = v
	}
	return ext
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
