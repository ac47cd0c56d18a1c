package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Store        StoreConfig   `mapstructure:"store"`
	Log          LogConfig     `mapstructure:"log"`
	DefaultAdmin AdminConfig   `mapstructure:"default_admin"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
}

type StoreConfig struct {
	// Driver is one of memory, sqlite, postgres, redis.
	Driver string `mapstructure:"driver"`
	// DSN is the connection string for sqlite/postgres drivers. For
	// sqlite this is the database file path.
	DSN           string `mapstructure:"dsn"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AdminConfig seeds the default administrator when the users slot is
// missing or unreadable.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("custodia")
	viper.AutomaticEnv()

	viper.SetDefault("store.driver", "sqlite")
	viper.SetDefault("store.dsn", "custodia.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("default_admin.username", "admin")
	viper.SetDefault("default_admin.password", "admin")
	viper.SetDefault("session_ttl", 0)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
