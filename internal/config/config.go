package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/email"
	"github.com/clinicware/clinic-api/internal/storage"
)

type Config struct {
	Server    ServerConfig
	Database  docstore.Config
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   storage.Config
	SMTP      email.Config
	RateLimit RateLimitConfig
	Log       LogConfig

	Secrets Secrets
}

type ServerConfig struct {
	Port           int  `mapstructure:"port"`
	TimeoutSeconds int  `mapstructure:"timeoutSeconds"`
	Release        bool `mapstructure:"release"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	ExpiryHours int `mapstructure:"expiry_hours"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Secrets come exclusively from the environment, never from the yaml file.
type Secrets struct {
	JWTSecret     string `envconfig:"JWT_SECRET"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	StorageSecret string `envconfig:"STORAGE_SECRET"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	SMTPPassword  string `envconfig:"SMTP_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config.Secrets); err != nil {
		return nil, fmt.Errorf("failed to read secrets from environment: %w", err)
	}

	// Environment secrets override any yaml placeholders.
	if config.Secrets.DBPassword != "" {
		config.Database.Password = config.Secrets.DBPassword
	}
	if config.Secrets.StorageSecret != "" {
		config.Storage.Secret = config.Secrets.StorageSecret
	}
	if config.Secrets.SMTPPassword != "" {
		config.SMTP.Password = config.Secrets.SMTPPassword
	}

	return &config, nil
}
