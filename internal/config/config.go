// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port         int `mapstructure:"port"`
	ScanInterval int `mapstructure:"scan_interval"`
	Database     struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Library struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"library"`
	Incoming struct {
		Path  string `mapstructure:"path"`
		Watch bool   `mapstructure:"watch"`
	} `mapstructure:"incoming"`
	Knowledge struct {
		SeedPath string `mapstructure:"seed_path"`
	} `mapstructure:"knowledge"`
	Scraper struct {
		Provider string `mapstructure:"provider"`
		APIKey   string `mapstructure:"api_key"`
		BaseURL  string `mapstructure:"base_url"`
	} `mapstructure:"scraper"`
	Batch struct {
		DelayMs int `mapstructure:"delay_ms"`
	} `mapstructure:"batch"`
}

// BatchDelay is the pause between files of a metadata batch.
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.Batch.DelayMs) * time.Millisecond
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "COMIC_" prefix.
	// e.g., COMIC_SCRAPER_API_KEY will override the `scraper.api_key` key.
	viper.SetEnvPrefix("COMIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("scan_interval", 60)
	viper.SetDefault("database.path", "./comics.db")
	viper.SetDefault("library.path", "./comics")
	viper.SetDefault("incoming.path", "./incoming")
	viper.SetDefault("incoming.watch", true)
	viper.SetDefault("knowledge.seed_path", "")
	viper.SetDefault("scraper.provider", "mockvine")
	viper.SetDefault("scraper.api_key", "")
	viper.SetDefault("scraper.base_url", "https://comicvine.gamespot.com/api")
	viper.SetDefault("batch.delay_ms", 0)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
