package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bountylynx/bountylynx/pkg/models"
)

// buildConfig resolves the effective configuration: an explicit config file
// wins, otherwise defaults overlaid with whatever viper picked up from the
// environment or a discovered profile.
func buildConfig() *models.Config {
	if cfgFile := viper.ConfigFileUsed(); cfgFile != "" {
		if cfg, err := models.LoadConfig(cfgFile); err == nil {
			applyOverrides(cfg)
			return cfg
		} else {
			logrus.Warnf("Failed to parse config file %s, using defaults: %v", cfgFile, err)
		}
	}
	cfg := models.DefaultConfig()
	applyOverrides(cfg)
	return cfg
}

func applyOverrides(cfg *models.Config) {
	if v := viper.GetString("session_directory"); v != "" {
		cfg.Storage.SessionDir = v
	}
	if v := viper.GetString("output_directory"); v != "" {
		cfg.Reporting.OutputDir = v
	}
	if v := viper.GetInt("access.free_tier_limit"); v > 0 {
		cfg.Access.FreeTierLimit = v
	}
	if v := viper.GetString("sandbox.image"); v != "" {
		cfg.Sandbox.Image = v
	}
	if v := viper.GetString("access.api_key"); v != "" {
		cfg.Access.APIKey = v
	}
}
