package config

import "strings"

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Environment string
}

// LoadLogConfig loads logger configuration from environment variables
func LoadLogConfig(getenv func(string) string) LogConfig {
	config := LogConfig{
		Level:       strings.ToLower(getenv("LOG_LEVEL")),
		Environment: strings.ToLower(getenv("APP_ENV")),
	}
	if config.Level == "" {
		config.Level = "info"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}
	return config
}
