// Package config resolves runtime settings from the environment, the OS
// keyring, and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/utils"
)

// Config is the environment-provided configuration.
type Config struct {
	DBConnection string `env:"TALLY_DB_CONNECTION"`
	ConfigDir    string `env:"TALLY_CONFIG_DIR" envDefault:"~/.config/tally"`
	Debug        bool   `env:"TALLY_DEBUG"`
	DayZone      string `env:"TALLY_DAY_ZONE" envDefault:"UTC"`
}

// Source names where the connection string came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
	SourceDefault Source = "default"
)

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", constants.EnvDayZone, err)
	}
	return cfg, nil
}

// Location returns the reference zone used to compute completion date keys.
func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.DayZone)
}

// ResolveConnection picks the database location. An explicit --config value
// wins; otherwise TALLY_DB_CONNECTION, then the OS keyring, then the default
// SQLite path.
func ResolveConnection(flagValue string, cfg Config, lookupKeyring func() (string, bool)) (string, Source) {
	if flagValue != "" && flagValue != constants.DefaultConfigPath {
		return flagValue, SourceFlag
	}
	if strings.TrimSpace(cfg.DBConnection) != "" {
		return cfg.DBConnection, SourceEnv
	}
	if lookupKeyring != nil {
		if connStr, ok := lookupKeyring(); ok {
			return connStr, SourceKeyring
		}
	}
	return constants.DefaultConfigPath, SourceDefault
}
