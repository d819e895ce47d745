// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/shomar/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dashboard DashboardConfig       `toml:"dashboard"`
	Log       LogConfig             `toml:"log"`
	Rates     map[string]RateConfig `toml:"rates"`
}

// DashboardConfig maps dashboard-related settings.
type DashboardConfig struct {
	Period       *string  `toml:"period"`
	Source       *string  `toml:"source"`
	Lang         *string  `toml:"lang"`
	Hidden       []string `toml:"hidden"`
	FetchTimeout *int     `toml:"fetch-timeout"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// RateConfig overrides the built-in averages of one statistic.
type RateConfig struct {
	Daily   *float64 `toml:"daily"`
	Monthly *float64 `toml:"monthly"`
	Yearly  *float64 `toml:"yearly"`
}

// Apply overlays the configured averages onto base.
func (rc RateConfig) Apply(base model.Rates) model.Rates {
	if rc.Daily != nil {
		base.Daily = *rc.Daily
	}
	if rc.Monthly != nil {
		base.Monthly = *rc.Monthly
	}
	if rc.Yearly != nil {
		base.Yearly = *rc.Yearly
	}
	return base
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
