package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Path string
	}
	Server struct {
		Port int
	}
	TUI struct {
		Enabled bool
	}
	Seed bool
}

// Load reads config.yaml when present and falls back to defaults. The PORT
// environment variable overrides server.port.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.BindEnv("server.port", "PORT"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; defaults and env vars apply.
	}

	cfg := &Config{}
	cfg.Database.Path = v.GetString("database.path")
	cfg.Server.Port = v.GetInt("server.port")
	cfg.TUI.Enabled = v.GetBool("tui.enabled")
	cfg.Seed = v.GetBool("seed")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "rememberbook.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("tui.enabled", false)
	v.SetDefault("seed", true)
}

func validate(cfg *Config) error {
	if cfg.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port, got %d", cfg.Server.Port)
	}
	return nil
}
