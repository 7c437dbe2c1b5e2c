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

	ProductURL string

	KafkaBrokers []string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

func Load() *Config {
	pkgconfig.LoadDotenv()

	cfg := &Config{
		ServerPort:  pkgconfig.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		ProductURL: os.Getenv("PRODUCT_URL"),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),

		SMTPHost:     pkgconfig.EnvDefault("SMTP_HOST", "localhost"),
		SMTPPort:     pkgconfig.EnvIntDefault("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     pkgconfig.EnvDefault("MAIL_FROM", "no-reply@duodeal.local"),
	}

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	pkgconfig.MustNonEmpty(cfg.ProductURL, "PRODUCT_URL")

	return cfg
}
