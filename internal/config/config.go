package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v10"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// Config centraliza la configuración del servicio de reportes.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"file:vidaplena.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"`

	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ReportRateLimit         int    `env:"REPORT_RATE_LIMIT" envDefault:"30"`
	ReportRateWindowSeconds int    `env:"REPORT_RATE_WINDOW_SECONDS" envDefault:"60"`
	FetchChunkSize          int    `env:"FETCH_CHUNK_SIZE" envDefault:"500"`
	ReportTimezone          string `env:"REPORT_LOCALE_TZ" envDefault:"America/Guayaquil"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"Club Vida Plena"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`
}

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres store")

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = StoreDriverPostgres
	}
	if cfg.StoreDriver == StoreDriverPostgres && cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.FetchChunkSize <= 0 {
		cfg.FetchChunkSize = 500
	}
	return &cfg, nil
}
