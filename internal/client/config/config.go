// Package config читает настройки клиента blogctl из переменных окружения.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — настройки клиента.
type Config struct {
	ServerURL string `env:"BLOGCTL_SERVER_URL" env-default:"http://localhost:8080"`
	DBPath    string `env:"BLOGCTL_DB_PATH" env-default:"blogctl.db"`
	Verbose   bool   `env:"BLOGCTL_VERBOSE" env-default:"false"`
}

// Load читает конфигурацию из окружения.
func Load() (*Config, error) {
	const op = "client.config.Load"

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}
