// Package config provides configuration for the repertoire service and CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lgbarn/repertoire-go/internal/errors"
)

// EnvPrefix prefixes environment overrides, e.g. REPERTOIRE_SERVER_LISTEN.
const EnvPrefix = "REPERTOIRE"

// Config holds all program configuration, grouped by concern.
type Config struct {
	Server   *ServerConfig   `mapstructure:"server"`
	Store    *StoreConfig    `mapstructure:"store"`
	Session  *SessionConfig  `mapstructure:"session"`
	Log      *LogConfig      `mapstructure:"log"`
	Notation *NotationConfig `mapstructure:"notation"`
	Output   *OutputConfig   `mapstructure:"output"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Server:   NewServerConfig(),
		Store:    NewStoreConfig(),
		Session:  NewSessionConfig(),
		Log:      NewLogConfig(),
		Notation: NewNotationConfig(),
		Output:   NewOutputConfig(),
	}
}

// Load reads configuration from path, if given, and from REPERTOIRE_*
// environment variables. Values missing from both keep their defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.listen", cfg.Server.Listen)
	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.badger.dir", cfg.Store.Badger.Dir)
	v.SetDefault("store.badger.in_memory", cfg.Store.Badger.InMemory)
	v.SetDefault("store.mongo.uri", cfg.Store.Mongo.URI)
	v.SetDefault("store.mongo.database", cfg.Store.Mongo.Database)
	v.SetDefault("store.timeout", cfg.Store.Timeout)
	v.SetDefault("session.redis_url", cfg.Session.RedisURL)
	v.SetDefault("session.ttl", cfg.Session.TTL)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("notation.castle_letters", cfg.Notation.CastleLetters)
	v.SetDefault("notation.eco_file", cfg.Notation.ECOFile)
	v.SetDefault("output.max_line_length", cfg.Output.MaxLineLength)
	v.SetDefault("output.json", cfg.Output.JSONFormat)
	v.SetDefault("output.keep_move_numbers", cfg.Output.KeepMoveNumbers)
	v.SetDefault("output.keep_variations", cfg.Output.KeepVariations)
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	validators := []interface{ Validate() error }{
		c.Server, c.Store, c.Session, c.Log, c.Output,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(errors.ErrInvalidConfig, format, args...)
}
