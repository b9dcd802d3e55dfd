// Package config loads service configuration from the environment,
// with optional .env file support for local development.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings
type Config struct {
	HTTPPort      string `mapstructure:"http_port"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
	RedisAddr     string `mapstructure:"redis_addr"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	CORSOrigins   string `mapstructure:"cors_origins"`
}

// Load reads configuration with env-var overrides (HTTP_PORT,
// MONGO_URI, ...). A .env file in the working directory is applied
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_port", "8080")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "continuity")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("jwt_secret", "change-me-in-production")
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", "password123")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("cors_origins", "*")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// go-redis wants host:port, not a redis:// URL
	cfg.RedisAddr = strings.TrimPrefix(cfg.RedisAddr, "redis://")

	return &cfg, nil
}
