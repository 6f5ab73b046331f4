package config

import "strings"

// Account the sandbox accepts when no credentials are configured
const (
	DefaultSandboxEmail    = "qa@cloudshop.test"
	DefaultSandboxPassword = "sandbox"
)

// ServerConfig holds configuration for the local sandbox server
type ServerConfig struct {
	Port        string
	Email       string
	Password    string
	PromoBanner bool
}

// LoadServerConfig loads sandbox server configuration from environment variables.
// The sandbox accepts the same CLOUDSHOP_EMAIL and CLOUDSHOP_PASSWORD the suite logs in with.
func LoadServerConfig(getenv func(string) string) ServerConfig {
	port := getenv("CLOUDSHOP_SANDBOX_PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	config := ServerConfig{
		Port:        port,
		Email:       getenv("CLOUDSHOP_EMAIL"),
		Password:    getenv("CLOUDSHOP_PASSWORD"),
		PromoBanner: strings.EqualFold(getenv("CLOUDSHOP_SANDBOX_PROMO"), "true"),
	}
	if config.Email == "" || config.Password == "" {
		config.Email, config.Password = DefaultSandboxEmail, DefaultSandboxPassword
	}
	return config
}
