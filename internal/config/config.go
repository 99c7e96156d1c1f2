// Package config loads DevReady settings from defaults, an optional
// config.yaml, DEVREADY_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/devndesk/DevReady/internal/llm"
	"github.com/devndesk/DevReady/internal/logging"
	"github.com/devndesk/DevReady/internal/store"
)

// DefaultAPIBaseURL is the hosted DevReady backend.
const DefaultAPIBaseURL = "https://devready.onrender.com/api"

// Config is the resolved application configuration.
type Config struct {
	API    APIConfig
	DBPath string
	Log    logging.Config
	LLM    llm.Config
	League LeagueConfig

	// LLMConfigured reports whether a provider key was found. When false,
	// quizzes are unavailable but the rest of the app works.
	LLMConfigured bool

	// File is the config file that was read, or empty.
	File string
}

// APIConfig configures the backend REST client.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LeagueConfig holds the leaderboard timers.
type LeagueConfig struct {
	RefreshInterval   time.Duration
	CountdownInterval time.Duration
}

// Options controls where Load looks for overrides.
type Options struct {
	// File is an explicit config file path. Empty means search the
	// default locations.
	File string

	// Flags, when set, are bound over the file and environment. Only
	// flags the user actually changed take precedence.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"api-url":   "api.base_url",
	"db":        "db",
	"log-level": "log.level",
}

// Load resolves configuration.
//
// Priority (highest to lowest):
// 1. Command-line flags
// 2. Environment variables with DEVREADY_ prefix (e.g. DEVREADY_API_BASE_URL)
// 3. config.yaml
// 4. Built-in defaults
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("DEVREADY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		DBPath: v.GetString("db"),
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		League: LeagueConfig{
			RefreshInterval:   v.GetDuration("league.refresh_interval"),
			CountdownInterval: v.GetDuration("league.countdown_interval"),
		},
		File: v.ConfigFileUsed(),
	}
	cfg.LLM, cfg.LLMConfigured = loadLLM(v)

	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("league.refresh_interval", 30*time.Second)
	v.SetDefault("league.countdown_interval", 60*time.Second)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", 45*time.Second)

	// Register every nested key so AutomaticEnv can see it through Get.
	for _, p := range []string{"groq", "anthropic", "openai", "gemini", "openrouter"} {
		v.SetDefault("llm."+p+".api_key", "")
		v.SetDefault("llm."+p+".model", "")
		v.SetDefault("llm."+p+".base_url", "")
	}
	v.SetDefault("db", "")
	v.SetDefault("log.output", "")
}

// loadLLM builds the provider config. Explicit DEVREADY_LLM_* settings win;
// otherwise the well-known vendor key variables are probed.
func loadLLM(v *viper.Viper) (llm.Config, bool) {
	cfg := llm.DefaultConfig()
	if d, ok := llm.DiscoverConfig(); ok {
		cfg = d
	}
	set := func(dst *string, key string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	set(&cfg.Groq.APIKey, "llm.groq.api_key")
	set(&cfg.Groq.Model, "llm.groq.model")
	set(&cfg.Groq.BaseURL, "llm.groq.base_url")
	set(&cfg.Anthropic.APIKey, "llm.anthropic.api_key")
	set(&cfg.Anthropic.Model, "llm.anthropic.model")
	set(&cfg.OpenAI.APIKey, "llm.openai.api_key")
	set(&cfg.OpenAI.Model, "llm.openai.model")
	set(&cfg.OpenAI.BaseURL, "llm.openai.base_url")
	set(&cfg.Gemini.APIKey, "llm.gemini.api_key")
	set(&cfg.Gemini.Model, "llm.gemini.model")
	set(&cfg.OpenRouter.APIKey, "llm.openrouter.api_key")
	set(&cfg.OpenRouter.Model, "llm.openrouter.model")
	set(&cfg.OpenRouter.BaseURL, "llm.openrouter.base_url")
	cfg.Timeout = v.GetDuration("llm.timeout")

	if p := v.GetString("llm.provider"); p != "" {
		cfg.Provider = p
		return cfg, cfg.Validate() == nil
	}
	if cfg.Validate() == nil {
		return cfg, true
	}
	// No vendor variable: accept the first provider configured through
	// DEVREADY_LLM_*.
	for _, p := range []string{"groq", "gemini", "openai", "anthropic", "openrouter"} {
		cfg.Provider = p
		if cfg.Validate() == nil {
			return cfg, true
		}
	}
	cfg.Provider = llm.DefaultConfig().Provider
	return cfg, false
}

// applyDefaults fills values that depend on the environment.
func applyDefaults(cfg *Config) error {
	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DBPath = p
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = filepath.Join(filepath.Dir(cfg.DBPath), "devready.log")
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = 45 * time.Second
	}
	return nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.League.RefreshInterval <= 0 {
		return fmt.Errorf("league.refresh_interval must be positive")
	}
	if c.League.CountdownInterval <= 0 {
		return fmt.Errorf("league.countdown_interval must be positive")
	}
	return nil
}

// Dir returns the directory searched for config.yaml.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "devready")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "devready")
}
