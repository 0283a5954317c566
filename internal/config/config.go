// Package config loads application configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// DBPath is the SQLite database file holding the group ledger.
	DBPath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// MirrorSpending is the default mirroring opt-in for newly created
	// groups.
	MirrorSpending bool
}

// Load reads configuration from environment variables and a .env file if
// one is present. Environment variables win over .env values.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is the normal case.
	_ = godotenv.Load()

	viper.SetDefault("LEDGER_DB_PATH", defaultDBPath())
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIRROR_SPENDING", false)
	viper.AutomaticEnv()

	return &Config{
		DBPath:         viper.GetString("LEDGER_DB_PATH"),
		LogLevel:       viper.GetString("LOG_LEVEL"),
		MirrorSpending: viper.GetBool("MIRROR_SPENDING"),
	}, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ledger.db"
	}
	return filepath.Join(home, ".fingrow", "ledger.db")
}
