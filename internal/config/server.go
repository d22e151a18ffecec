package config

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{Listen: ":8080"}
}

// Validate checks that the server configuration is valid.
func (s *ServerConfig) Validate() error {
	if s.Listen == "" {
		return invalid("server.listen is empty")
	}
	return nil
}

// SessionConfig configures where each repertoire's current view is kept.
// An empty RedisURL keeps views in process memory.
type SessionConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// NewSessionConfig creates a SessionConfig with default values.
func NewSessionConfig() *SessionConfig {
	return &SessionConfig{TTL: 24 * time.Hour}
}

// Validate checks that the session configuration is valid.
func (s *SessionConfig) Validate() error {
	if s.TTL < 0 {
		return invalid("session.ttl must not be negative, got %v", s.TTL)
	}
	return nil
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// NewLogConfig creates a LogConfig with default values.
func NewLogConfig() *LogConfig {
	return &LogConfig{Level: "info"}
}

// Validate checks that the level names a zap level.
func (l *LogConfig) Validate() error {
	if _, err := l.ZapLevel(); err != nil {
		return invalid("log.level: %v", err)
	}
	return nil
}

// ZapLevel returns the configured level.
func (l *LogConfig) ZapLevel() (zapcore.Level, error) {
	var lvl zapcore.Level
	err := lvl.UnmarshalText([]byte(l.Level))
	return lvl, err
}
