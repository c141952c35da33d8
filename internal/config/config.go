// Package config provides Viper-based configuration loading for the Rondo server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-request read timeout.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-request write timeout.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownGrace is how long graceful shutdown waits for in-flight
	// requests before forcing the listener closed.
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GameConfig holds game-creation bounds and task-draw ranges.
type GameConfig struct {
	// MinBoxCount and MaxBoxCount bound the board size accepted from clients.
	MinBoxCount int `mapstructure:"min_box_count"`
	MaxBoxCount int `mapstructure:"max_box_count"`
	// MinPlayers and MaxPlayers bound the roster size accepted from clients.
	MinPlayers int `mapstructure:"min_players"`
	MaxPlayers int `mapstructure:"max_players"`
	// PayoutMin and PayoutMax bound the drawn task payout, inclusive.
	PayoutMin int `mapstructure:"payout_min"`
	PayoutMax int `mapstructure:"payout_max"`
	// StepsMin and StepsMax bound the drawn task step debt, inclusive.
	StepsMin int `mapstructure:"steps_min"`
	StepsMax int `mapstructure:"steps_max"`
	// DefaultTarget is the win target used when a custom setup omits one.
	DefaultTarget int `mapstructure:"default_target"`
	// ChoiceTimeout is how long the server waits for a stop selection or
	// task resolution before auto-resolving. Zero disables the timer.
	ChoiceTimeout time.Duration `mapstructure:"choice_timeout"`
	// BoardsDir is the directory holding board preset YAML files.
	BoardsDir string `mapstructure:"boards_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Host == "" {
		errs = append(errs, "server.host must not be empty")
	}
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must not be negative")
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if s.ShutdownGrace < 0 {
		errs = append(errs, "server.shutdown_grace must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.MinBoxCount < 2 {
		errs = append(errs, fmt.Sprintf("game.min_box_count must be >= 2, got %d", g.MinBoxCount))
	}
	if g.MaxBoxCount < g.MinBoxCount {
		errs = append(errs, "game.max_box_count must not be below game.min_box_count")
	}
	if g.MinPlayers < 1 {
		errs = append(errs, fmt.Sprintf("game.min_players must be >= 1, got %d", g.MinPlayers))
	}
	if g.MaxPlayers < g.MinPlayers {
		errs = append(errs, "game.max_players must not be below game.min_players")
	}
	if g.PayoutMin < 1 {
		errs = append(errs, fmt.Sprintf("game.payout_min must be >= 1, got %d", g.PayoutMin))
	}
	if g.PayoutMax < g.PayoutMin {
		errs = append(errs, "game.payout_max must not be below game.payout_min")
	}
	if g.StepsMin < 1 {
		errs = append(errs, fmt.Sprintf("game.steps_min must be >= 1, got %d", g.StepsMin))
	}
	if g.StepsMax < g.StepsMin {
		errs = append(errs, "game.steps_max must not be below game.steps_min")
	}
	if g.DefaultTarget < 1 {
		errs = append(errs, fmt.Sprintf("game.default_target must be >= 1, got %d", g.DefaultTarget))
	}
	if g.ChoiceTimeout < 0 {
		errs = append(errs, "game.choice_timeout must not be negative")
	}
	if g.BoardsDir == "" {
		errs = append(errs, "game.boards_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with RONDO_ prefix
	v.SetEnvPrefix("RONDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_grace", "10s")

	v.SetDefault("game.min_box_count", 8)
	v.SetDefault("game.max_box_count", 120)
	v.SetDefault("game.min_players", 1)
	v.SetDefault("game.max_players", 6)
	v.SetDefault("game.payout_min", 5)
	v.SetDefault("game.payout_max", 11)
	v.SetDefault("game.steps_min", 1)
	v.SetDefault("game.steps_max", 12)
	v.SetDefault("game.default_target", 100)
	v.SetDefault("game.choice_timeout", "45s")
	v.SetDefault("game.boards_dir", "content/boards")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
