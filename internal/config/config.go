package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort             int    `mapstructure:"APP_PORT"`
	DatabasePath        string `mapstructure:"DATABASE_PATH"`
	BackendURL          string `mapstructure:"BACKEND_URL"`
	StreamPath          string `mapstructure:"STREAM_PATH"`
	SystemPrompt        string `mapstructure:"SYSTEM_PROMPT"`
	MaxEventBytes       int    `mapstructure:"MAX_EVENT_BYTES"`
	BackendWaitAttempts int    `mapstructure:"BACKEND_WAIT_ATTEMPTS"`
	LogLevel            string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/chat.db")
	viper.SetDefault("BACKEND_URL", "http://localhost:8080")
	viper.SetDefault("STREAM_PATH", "/api/chat/stream")
	viper.SetDefault("SYSTEM_PROMPT", "")
	viper.SetDefault("MAX_EVENT_BYTES", 1<<20)
	viper.SetDefault("BACKEND_WAIT_ATTEMPTS", 10)
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
