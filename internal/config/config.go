/**
 * @description
 * Configuration management. Settings are read from environment variables via
 * viper; a .env file loaded in main covers local development.
 */
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	ServerURL   string `mapstructure:"SERVER_URL"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	JWTExpiresIn time.Duration `mapstructure:"JWT_EXPIRES_IN"`

	WorkflowURL   string `mapstructure:"WORKFLOW_URL"`
	WorkflowToken string `mapstructure:"WORKFLOW_TOKEN"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	EmailFrom    string `mapstructure:"EMAIL_FROM"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_URL", "http://localhost:8080")
	viper.SetDefault("JWT_EXPIRES_IN", "24h")
	viper.SetDefault("SMTP_PORT", "587")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	for _, key := range []string{
		"SERVER_PORT", "SERVER_URL", "DATABASE_URL",
		"JWT_SECRET", "JWT_EXPIRES_IN",
		"WORKFLOW_URL", "WORKFLOW_TOKEN",
		"RABBITMQ_URL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "EMAIL_FROM",
	} {
		_ = viper.BindEnv(key)
	}

	if err = viper.Unmarshal(&config); err != nil {
		return config, err
	}
	if config.DatabaseURL == "" {
		return config, errors.New("DATABASE_URL is required")
	}
	if config.JWTSecret == "" {
		return config, errors.New("JWT_SECRET is required")
	}
	return config, nil
}
