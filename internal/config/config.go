package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`
	Database struct {
		URL                 string `yaml:"url"`
		QueryTimeoutSeconds int64  `yaml:"query_timeout_seconds"`
	} `yaml:"database"`
	JWT struct {
		Secret       string `yaml:"secret"`
		ExpiresHours int64  `yaml:"expires_hours"`
	} `yaml:"jwt"`
	Downloader struct {
		URL                   string `yaml:"url"`
		Enabled               bool   `yaml:"enabled"`
		QueueSize             int    `yaml:"queue_size"`
		RequestTimeoutSeconds int64  `yaml:"request_timeout_seconds"`
	} `yaml:"downloader"`
	Notifier struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"notifier"`
}

// IsProduction reports whether the server runs in production mode. Error
// responses include stack detail only when this is false.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set")
	}
	if c.Database.URL == "" {
		return errors.New("database.url must be set")
	}
	if c.JWT.ExpiresHours <= 0 {
		c.JWT.ExpiresHours = 24
	}
	if c.Database.QueryTimeoutSeconds <= 0 {
		c.Database.QueryTimeoutSeconds = 5
	}
	if c.Downloader.QueueSize <= 0 {
		c.Downloader.QueueSize = 64
	}
	if c.Downloader.RequestTimeoutSeconds <= 0 {
		c.Downloader.RequestTimeoutSeconds = 30
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	return nil
}
