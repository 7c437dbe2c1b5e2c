package config

import (
	"os"

	pkgconfig "github.com/duodeal/backend/pkg/config"
)

type Config struct {
	ServerPort  int
	LogLevel    string
	DatabaseURL string

	JWTSecret []byte

	UserURL string

	KafkaBrokers []string
}

func Load() *Config {
	pkgconfig.LoadDotenv()

	cfg := &Config{
		ServerPort:  pkgconfig.EnvIntDefault("SERVER_PORT", 8082),
		LogLevel:    pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		UserURL: os.Getenv("USER_URL"),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),
	}

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	pkgconfig.MustNonEmpty(cfg.UserURL, "USER_URL")

	return cfg
}
