package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/testutil"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	testutil.AssertEqual(t, cfg.Server.Listen, ":8080")
	testutil.AssertEqual(t, cfg.Store.Backend, BackendBadger)
	testutil.AssertEqual(t, cfg.Store.Badger.Dir, "repertoire-data")
	testutil.AssertEqual(t, cfg.Store.Timeout, 5*time.Second)
	testutil.AssertEqual(t, cfg.Session.RedisURL, "")
	testutil.AssertEqual(t, cfg.Session.TTL, 24*time.Hour)
	testutil.AssertEqual(t, cfg.Log.Level, "info")
	testutil.AssertFalse(t, cfg.Notation.CastleLetters, "CastleLetters")
	testutil.AssertEqual(t, cfg.Output.MaxLineLength, uint(80))
	testutil.AssertTrue(t, cfg.Output.KeepMoveNumbers, "KeepMoveNumbers")
	testutil.AssertNoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Server.Listen, ":8080")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repertoire.yaml")
	yaml := `
server:
  listen: ":9090"
store:
  backend: mongo
  timeout: 2s
  mongo:
    uri: mongodb://db:27017
    database: openings
session:
  redis_url: redis:6379
  ttl: 1h
notation:
  castle_letters: true
  eco_file: openings.tsv
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Server.Listen, ":9090")
	testutil.AssertEqual(t, cfg.Store.Backend, BackendMongo)
	testutil.AssertEqual(t, cfg.Store.Timeout, 2*time.Second)
	testutil.AssertEqual(t, cfg.Store.Mongo.Database, "openings")
	testutil.AssertEqual(t, cfg.Session.RedisURL, "redis:6379")
	testutil.AssertEqual(t, cfg.Session.TTL, time.Hour)
	testutil.AssertTrue(t, cfg.Notation.CastleLetters, "CastleLetters")
	testutil.AssertEqual(t, cfg.Notation.ECOFile, "openings.tsv")
	// Untouched keys keep defaults.
	testutil.AssertEqual(t, cfg.Log.Level, "info")
	testutil.AssertEqual(t, cfg.Output.MaxLineLength, uint(80))
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("REPERTOIRE_SERVER_LISTEN", "127.0.0.1:7000")
	t.Setenv("REPERTOIRE_STORE_BADGER_IN_MEMORY", "true")
	t.Setenv("REPERTOIRE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Server.Listen, "127.0.0.1:7000")
	testutil.AssertTrue(t, cfg.Store.Badger.InMemory, "InMemory")
	testutil.AssertEqual(t, cfg.Log.Level, "debug")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	testutil.AssertError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("REPERTOIRE_STORE_BACKEND", "sqlite")
	_, err := Load("")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty listen", func(c *Config) { c.Server.Listen = "" }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "sqlite" }},
		{"badger without dir", func(c *Config) { c.Store.Badger.Dir = "" }},
		{"mongo without database", func(c *Config) {
			c.Store.Backend = BackendMongo
			c.Store.Mongo.Database = ""
		}},
		{"zero timeout", func(c *Config) { c.Store.Timeout = 0 }},
		{"negative ttl", func(c *Config) { c.Session.TTL = -time.Second }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"short lines", func(c *Config) { c.Output.MaxLineLength = 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			testutil.AssertErrorIs(t, cfg.Validate(), errors.ErrInvalidConfig)
		})
	}
}

func TestConfigBuilder(t *testing.T) {
	cfg := NewConfigBuilder().
		WithListen(":1234").
		WithBadgerInMemory().
		WithRedis("localhost:6379").
		WithLogLevel("warn").
		WithCastleLetters(true).
		WithECOFile("openings.tsv").
		WithJSONOutput(true).
		WithMaxLineLength(60).
		Build()

	testutil.AssertEqual(t, cfg.Server.Listen, ":1234")
	testutil.AssertTrue(t, cfg.Store.Badger.InMemory, "InMemory")
	testutil.AssertEqual(t, cfg.Session.RedisURL, "localhost:6379")
	testutil.AssertEqual(t, cfg.Log.Level, "warn")
	testutil.AssertTrue(t, cfg.Notation.CastleLetters, "CastleLetters")
	testutil.AssertEqual(t, cfg.Notation.ECOFile, "openings.tsv")
	testutil.AssertTrue(t, cfg.Output.JSONFormat, "JSONFormat")
	testutil.AssertEqual(t, cfg.Output.MaxLineLength, uint(60))
	testutil.AssertNoError(t, cfg.Validate())

	mongo := From(cfg).WithMongo("mongodb://x", "db").Build()
	testutil.AssertEqual(t, mongo.Store.Backend, BackendMongo)
}
