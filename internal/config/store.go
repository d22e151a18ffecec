package config

import "time"

// Store backends.
const (
	BackendBadger = "badger"
	BackendMongo  = "mongo"
)

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend string        `mapstructure:"backend"`
	Timeout time.Duration `mapstructure:"timeout"`
	Badger  BadgerConfig  `mapstructure:"badger"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
}

// BadgerConfig configures the embedded store.
type BadgerConfig struct {
	Dir      string `mapstructure:"dir"`
	InMemory bool   `mapstructure:"in_memory"`
}

// MongoConfig configures the MongoDB store.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// NewStoreConfig creates a StoreConfig with default values.
func NewStoreConfig() *StoreConfig {
	return &StoreConfig{
		Backend: BackendBadger,
		Timeout: 5 * time.Second,
		Badger:  BadgerConfig{Dir: "repertoire-data"},
		Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "repertoire"},
	}
}

// Validate checks that the store configuration is valid.
func (s *StoreConfig) Validate() error {
	switch s.Backend {
	case BackendBadger:
		if s.Badger.Dir == "" && !s.Badger.InMemory {
			return invalid("store.badger.dir is required unless store.badger.in_memory is set")
		}
	case BackendMongo:
		if s.Mongo.URI == "" || s.Mongo.Database == "" {
			return invalid("store.mongo.uri and store.mongo.database are required")
		}
	default:
		return invalid("unknown store.backend %q", s.Backend)
	}
	if s.Timeout <= 0 {
		return invalid("store.timeout must be positive, got %v", s.Timeout)
	}
	return nil
}
