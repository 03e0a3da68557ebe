// Package config содержит конфигурацию сервиса и её загрузку из окружения.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// HTTPConfig содержит настройки HTTP-сервера.
type HTTPConfig struct {
	Address         string        `env:"SERVER_ADDRESS" envDefault:"0.0.0.0:8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DBConfig содержит настройки подключения к PostgreSQL.
type DBConfig struct {
	// Готовая строка подключения; если пусто, собирается из полей ниже.
	Conn     string `env:"POSTGRES_CONN"`
	Username string `env:"POSTGRES_USERNAME"`
	Password string `env:"POSTGRES_PASSWORD"`
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	Database string `env:"POSTGRES_DATABASE" envDefault:"tenders"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	MigrationsEnabled bool `env:"MIGRATIONS_ENABLED" envDefault:"true"`
}

// AuthConfig содержит настройки выдачи токенов.
type AuthConfig struct {
	Secret    string        `env:"AUTH_SECRET"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"30m"`
	RateLimit float64       `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	RateBurst int           `env:"AUTH_RATE_BURST" envDefault:"10"`
}

// Config агрегирует конфигурацию всех подсистем.
type Config struct {
	HTTP HTTPConfig
	DB   DBConfig
	Auth AuthConfig
}

// DSN возвращает строку подключения для lib/pq.
func (c DBConfig) DSN() string {
	if c.Conn != "" {
		return c.Conn
	}
	if c.Username == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Load считывает конфиг из переменных окружения и проверяет обязательные поля.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("AUTH_SECRET is not set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	if c.DB.DSN() == "" {
		return errors.New("POSTGRES_CONN or POSTGRES_USERNAME must be set")
	}
	return nil
}
