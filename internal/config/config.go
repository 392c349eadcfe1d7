package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Output format template for album listings
	// Default: "{{.Artist}} - {{.Title}} ({{.Year}})"
	OutputFormat string

	// Directory for the lookup database
	// Default: ~/.local/share/gnlookup
	DataDir string

	// Gracenote API credentials and options
	Gracenote GracenoteConfig
}

// GracenoteConfig holds Gracenote specific configuration
type GracenoteConfig struct {
	ClientID  string
	ClientTag string
	UserID    string
	Debug     bool
	BaseURL   string
	TimeoutMS int
}

// Timeout returns the request timeout as a duration
func (g GracenoteConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutMS) * time.Millisecond
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	return load(getConfigDir())
}

func load(configDir string) (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("output_format", "{{.Artist}} - {{.Title}} ({{.Year}})")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("gracenote.client_id", "")
	v.SetDefault("gracenote.client_tag", "")
	v.SetDefault("gracenote.user_id", "")
	v.SetDefault("gracenote.debug", false)
	v.SetDefault("gracenote.base_url", "")
	v.SetDefault("gracenote.timeout_ms", 10000)

	// Read config file (optional - don't fail if missing)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Read from environment variables, e.g. GNLOOKUP_GRACENOTE_CLIENT_ID
	v.SetEnvPrefix("GNLOOKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		OutputFormat: v.GetString("output_format"),
		DataDir:      v.GetString("data_dir"),
		Gracenote: GracenoteConfig{
			ClientID:  v.GetString("gracenote.client_id"),
			ClientTag: v.GetString("gracenote.client_tag"),
			UserID:    v.GetString("gracenote.user_id"),
			Debug:     v.GetBool("gracenote.debug"),
			BaseURL:   v.GetString("gracenote.base_url"),
			TimeoutMS: v.GetInt("gracenote.timeout_ms"),
		},
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "gnlookup")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "gnlookup")
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.save(getConfigDir())
}

func (c *Config) save(configDir string) error {
	v := viper.New()

	// Set config file path
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("output_format", c.OutputFormat)
	v.Set("data_dir", c.DataDir)
	v.Set("gracenote.client_id", c.Gracenote.ClientID)
	v.Set("gracenote.client_tag", c.Gracenote.ClientTag)
	v.Set("gracenote.user_id", c.Gracenote.UserID)
	v.Set("gracenote.debug", c.Gracenote.Debug)
	v.Set("gracenote.base_url", c.Gracenote.BaseURL)
	v.Set("gracenote.timeout_ms", c.Gracenote.TimeoutMS)

	// Write to file
	return v.WriteConfigAs(configFile)
}
