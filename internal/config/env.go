package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvSource   = "SHOMAR_SOURCE"
	EnvPeriod   = "SHOMAR_PERIOD"
	EnvLang     = "SHOMAR_LANG"
	EnvLogLevel = "SHOMAR_LOG_LEVEL"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment without replacing variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment overrides onto cfg.
func ApplyEnv(cfg *FileConfig) {
	applyEnvString(EnvSource, &cfg.Dashboard.Source)
	applyEnvString(EnvPeriod, &cfg.Dashboard.Period)
	applyEnvString(EnvLang, &cfg.Dashboard.Lang)
	applyEnvString(EnvLogLevel, &cfg.Log.Level)
}

func applyEnvString(name string, target **string) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	*target = &value
}
