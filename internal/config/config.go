// Package config provides environment-based configuration for the server
// and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ServerConfig holds the settings the HTTP server needs.
type ServerConfig struct {
	Port          int
	DatabaseURL   string
	ParserBaseURL string
	LogJSON       bool
	Debug         bool
}

// NewServerConfig creates a server configuration from environment variables.
// It reads DATABASE_URL (required), PORT (default: 8080), PARSER_BASE_URL,
// LOG_JSON and DEBUG.
func NewServerConfig() (*ServerConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}

	config := &ServerConfig{
		Port:          port,
		DatabaseURL:   databaseURL,
		ParserBaseURL: os.Getenv("PARSER_BASE_URL"),
		LogJSON:       boolEnv("LOG_JSON"),
		Debug:         boolEnv("DEBUG"),
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	return nil
}

func boolEnv(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}
