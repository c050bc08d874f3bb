package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Settings are process-level options read from the environment.
type Settings struct {
	ConfigPath string `env:"BANKQIF_CONFIG" envDefault:"bankqif.yaml"`
	LogLevel   string `env:"BANKQIF_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"BANKQIF_LOG_FORMAT" envDefault:"console"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parsing environment: %w", err)
	}
	return s, nil
}
