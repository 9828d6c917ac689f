package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ErrorBotToken string   `json:"ERROR_BOT_TOKEN" yaml:"ERROR_BOT_TOKEN"`
	ErrorChatID   []string `json:"ERROR_CHAT_ID" yaml:"ERROR_CHAT_ID"`
	DBUsername    string   `yaml:"db_username"`
	DBPassword    string   `yaml:"db_password"`
	DBHost        string   `yaml:"db_host"`
	DBPort        string   `yaml:"port"`
	DBName        string   `yaml:"db_name"`
	DisableTLS    bool     `yaml:"disable_tls"`
	RedisHost     string   `yaml:"redis_host"`
	RedisPort     string   `yaml:"redis_port"`
	GeocoderUrl   string   `yaml:"geocoder_url"`
	WebOrigins    []string `yaml:"web_origins"`
}

func NewConfig() (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}

	return &c, nil
}
