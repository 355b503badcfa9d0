package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. It is constructed once at
// process start and passed by reference to every component that needs it.
type Config struct {
	App    App    `mapstructure:"app"`
	AI     AI     `mapstructure:"ai"`
	Feeds  Feeds  `mapstructure:"feeds"`
	Gamma  Gamma  `mapstructure:"gamma"`
	Server Server `mapstructure:"server"`
}

// App holds general application configuration.
type App struct {
	Debug     bool   `mapstructure:"debug"`
	DataDir   string `mapstructure:"data_dir"`
	StaticDir string `mapstructure:"static_dir"`
}

// AI holds text-generation backend configuration. Provider selection is
// process-wide and fixed at startup, not per-call.
type AI struct {
	Provider   string           `mapstructure:"provider"` // "anthropic" or "enterprise"
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Enterprise EnterpriseConfig `mapstructure:"enterprise"`
}

// AnthropicConfig holds Anthropic API configuration.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// EnterpriseConfig holds the internal enterprise chat API configuration.
type EnterpriseConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// Feeds holds RSS/news feed configuration.
type Feeds struct {
	Timeout         string `mapstructure:"timeout"`
	UserAgent       string `mapstructure:"user_agent"`
	NewsSearchURL   string `mapstructure:"news_search_url"`
	PartnerPressURL string `mapstructure:"partner_press_url"`
	CompanyPressURL string `mapstructure:"company_press_url"`
}

// Gamma holds the external slide-rendering service configuration.
type Gamma struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	PollInterval string `mapstructure:"poll_interval"`
	MaxPollTime  string `mapstructure:"max_poll_time"`
}

// Server holds HTTP server configuration.
type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Load loads configuration from .env, a config file, and the environment.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".accountintel")
		v.SetConfigType("yaml")
	}

	setDefaults(v)
	bindEnvironmentVariables(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)
	v.SetDefault("app.data_dir", "data")
	v.SetDefault("app.static_dir", "static")

	v.SetDefault("ai.provider", "anthropic")
	v.SetDefault("ai.enterprise.endpoint", "https://api.ai-service.example.com/ai-foundation/chat-ai/gpt/gpt-5.1")
	v.SetDefault("ai.enterprise.model", "gpt-5.1")

	v.SetDefault("feeds.timeout", "30s")
	v.SetDefault("feeds.user_agent", "AccountIntel/1.0")
	v.SetDefault("feeds.news_search_url", "https://news.google.com/rss/search")
	v.SetDefault("feeds.partner_press_url", "https://newsroom.kddi.com/news/newsrelease.xml")
	v.SetDefault("feeds.company_press_url", "https://prtimes.jp/companyrdf.php?company_id=93942")

	v.SetDefault("gamma.base_url", "https://public-api.gamma.app/v1.0")
	v.SetDefault("gamma.poll_interval", "5s")
	v.SetDefault("gamma.max_poll_time", "5m")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
}

// bindEnvironmentVariables maps the environment variables the original
// deployment used onto viper keys.
func bindEnvironmentVariables(v *viper.Viper) {
	bindEnvKeys(v, "ai.provider", []string{"AI_PROVIDER"})
	bindEnvKeys(v, "ai.anthropic.api_key", []string{"ANTHROPIC_API_KEY"})
	bindEnvKeys(v, "ai.enterprise.api_key", []string{"ENTERPRISE_AI_KEY"})
	bindEnvKeys(v, "ai.enterprise.endpoint", []string{"ENTERPRISE_AI_ENDPOINT"})
	bindEnvKeys(v, "gamma.api_key", []string{"GAMMA_API_KEY"})
	bindEnvKeys(v, "app.data_dir", []string{"DATA_DIR"})
	bindEnvKeys(v, "app.debug", []string{"DEBUG"})
}

// bindEnvKeys binds the first found environment variable to a viper key.
func bindEnvKeys(v *viper.Viper, viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			v.Set(viperKey, value)
			return
		}
	}
}

func postProcessConfig(config *Config) error {
	config.App.DataDir = expandPath(config.App.DataDir)
	config.App.StaticDir = expandPath(config.App.StaticDir)

	durations := map[string]string{
		"feeds.timeout":       config.Feeds.Timeout,
		"gamma.poll_interval": config.Gamma.PollInterval,
		"gamma.max_poll_time": config.Gamma.MaxPollTime,
	}
	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func validateConfig(config *Config) error {
	switch config.AI.Provider {
	case "anthropic", "enterprise":
	default:
		return fmt.Errorf("unknown AI provider: %s (supported: anthropic, enterprise)", config.AI.Provider)
	}
	return nil
}

// HasAI reports whether the selected text-generation backend has a
// credential configured. Components fall back to static data when false.
func (c *Config) HasAI() bool {
	switch c.AI.Provider {
	case "enterprise":
		return c.AI.Enterprise.APIKey != ""
	default:
		return c.AI.Anthropic.APIKey != ""
	}
}

// HasGamma reports whether the slide-rendering integration is configured.
func (c *Config) HasGamma() bool {
	return c.Gamma.APIKey != ""
}

// FeedTimeout returns the parsed feed HTTP timeout.
func (c *Config) FeedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Feeds.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GammaPollInterval returns the parsed poll interval for slide generation.
func (c *Config) GammaPollInterval() time.Duration {
	d, err := time.ParseDuration(c.Gamma.PollInterval)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GammaMaxPollTime returns the maximum total wait for slide generation.
func (c *Config) GammaMaxPollTime() time.Duration {
	d, err := time.ParseDuration(c.Gamma.MaxPollTime)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}
