package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config is the vibediary configuration. It is constructed once per
// invocation and passed to each hook stage.
type Config struct {
	Version string `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`

	// SessionsDir holds one <session_id>.jsonl activity log per session.
	SessionsDir string `yaml:"sessions_dir,omitempty" toml:"sessions_dir,omitempty" json:"sessions_dir,omitempty" jsonschema:"description=Directory for per-session activity logs"`
	// PostsDir receives the generated markdown diary posts.
	PostsDir string `yaml:"posts_dir,omitempty" toml:"posts_dir,omitempty" json:"posts_dir,omitempty" jsonschema:"description=Directory for generated diary posts"`

	// LoggedTools is the allow-list of tool names the activity recorder keeps.
	LoggedTools []string `yaml:"logged_tools,omitempty" toml:"logged_tools,omitempty" json:"logged_tools,omitempty" jsonschema:"description=Tool names recorded by the activity hook"`
	// ExcludePaths are glob patterns; activities touching a matching file or path are not recorded.
	ExcludePaths []string `yaml:"exclude_paths,omitempty" toml:"exclude_paths,omitempty" json:"exclude_paths,omitempty" jsonschema:"description=Glob patterns of file paths never recorded"`

	Diary     DiaryConfig     `yaml:"diary,omitempty" toml:"diary,omitempty" json:"diary,omitempty" jsonschema:"description=Diary synthesis settings"`
	Providers ProvidersConfig `yaml:"providers,omitempty" toml:"providers,omitempty" json:"providers,omitempty" jsonschema:"description=Text generation providers"`

	// Extensions captures any top-level keys not defined above, such as 'logging'.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// DiaryConfig controls when and how a diary post is produced.
type DiaryConfig struct {
	// MinRecords is the minimum number of parsed session records required to write a post.
	MinRecords int `yaml:"min_records,omitempty" toml:"min_records,omitempty" json:"min_records,omitempty" jsonschema:"minimum=1,description=Minimum session records before a diary is generated"`
	// BaseTags are always present in the post frontmatter.
	BaseTags []string `yaml:"base_tags,omitempty" toml:"base_tags,omitempty" json:"base_tags,omitempty" jsonschema:"description=Tags added to every post"`
	// TitlePrefix precedes the project name in the post title.
	TitlePrefix string `yaml:"title_prefix,omitempty" toml:"title_prefix,omitempty" json:"title_prefix,omitempty" jsonschema:"description=Post title prefix"`
}

// ProvidersConfig lists the generation backends in preference order.
type ProvidersConfig struct {
	Order []string `yaml:"order,omitempty" toml:"order,omitempty" json:"order,omitempty" jsonschema:"description=Providers tried in order until one succeeds"`
	// Timeout bounds each provider call (Go duration string).
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"description=Per-provider call timeout (e.g. 90s)"`

	Anthropic ProviderConfig `yaml:"anthropic,omitempty" toml:"anthropic,omitempty" json:"anthropic,omitempty"`
	Gemini    ProviderConfig `yaml:"gemini,omitempty" toml:"gemini,omitempty" json:"gemini,omitempty"`
	OpenAI    ProviderConfig `yaml:"openai,omitempty" toml:"openai,omitempty" json:"openai,omitempty"`
}

// ProviderConfig configures a single generation backend. The API key is
// only ever read from the environment.
type ProviderConfig struct {
	Model     string `yaml:"model,omitempty" toml:"model,omitempty" json:"model,omitempty" jsonschema:"description=Model name"`
	MaxTokens int    `yaml:"max_tokens,omitempty" toml:"max_tokens,omitempty" json:"max_tokens,omitempty" jsonschema:"minimum=1,description=Maximum output tokens"`
	BaseURL   string `yaml:"base_url,omitempty" toml:"base_url,omitempty" json:"base_url,omitempty" jsonschema:"description=Override for the API base URL"`

	APIKey string `yaml:"-" toml:"-" json:"-" jsonschema:"-"`
}

// Provider names understood by the generation chain.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
)

// KnownProviders lists every provider name accepted in providers.order.
var KnownProviders = []string{ProviderAnthropic, ProviderGemini, ProviderOpenAI}

// Provider returns the settings for a named provider.
func (p *ProvidersConfig) Provider(name string) (ProviderConfig, bool) {
	switch name {
	case ProviderAnthropic:
		return p.Anthropic, true
	case ProviderGemini:
		return p.Gemini, true
	case ProviderOpenAI:
		return p.OpenAI, true
	}
	return ProviderConfig{}, false
}

// CallTimeout parses Timeout, falling back to the default.
func (p *ProvidersConfig) CallTimeout() time.Duration {
	if p.Timeout == "" {
		return DefaultProviderTimeout
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil || d <= 0 {
		return DefaultProviderTimeout
	}
	return d
}

// IsLogged reports whether the tool name is in the allow-list.
func (c *Config) IsLogged(tool string) bool {
	for _, t := range c.LoggedTools {
		if t == tool {
			return true
		}
	}
	return false
}

// UnmarshalExtension decodes a specific extension's configuration into the provided struct.
// The target should be a pointer to a struct.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	// Use mapstructure to decode the generic map[string]interface{}
	// into the strongly-typed target struct. We configure it to use
	// `yaml` tags for consistency.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// Redacted returns a copy safe to print: API keys are replaced by a marker.
func (c *Config) Redacted() *Config {
	cp := *c
	redact := func(p *ProviderConfig) {
		if p.APIKey != "" {
			p.APIKey = "********"
		}
	}
	redact(&cp.Providers.Anthropic)
	redact(&cp.Providers.Gemini)
	redact(&cp.Providers.OpenAI)
	return &cp
}
