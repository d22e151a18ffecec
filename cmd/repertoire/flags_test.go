package main

import (
	"testing"

	"github.com/lgbarn/repertoire-go/internal/config"
)

// saveRestoreBool sets a flag pointer and returns a func restoring it.
// Usage: defer saveRestoreBool(memStore, true)()
func saveRestoreBool(ptr *bool, val bool) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

func saveRestoreInt(ptr *int, val int) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

func saveRestoreString(ptr *string, val string) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

func TestApplyServerFlags(t *testing.T) {
	t.Run("defaults keep config", func(t *testing.T) {
		cfg := config.NewConfig()
		applyServerFlags(cfg)
		if cfg.Store.Backend != config.BackendBadger || cfg.Store.Badger.Dir != "repertoire-data" {
			t.Errorf("Store = %+v; want default badger store", cfg.Store)
		}
		if cfg.Server.Listen != ":8080" {
			t.Errorf("Listen = %q; want :8080", cfg.Server.Listen)
		}
	})

	t.Run("mongo wins over memstore", func(t *testing.T) {
		defer saveRestoreString(mongoURI, "mongodb://db:27017")()
		defer saveRestoreBool(memStore, true)()
		cfg := config.NewConfig()
		applyServerFlags(cfg)
		if cfg.Store.Backend != config.BackendMongo {
			t.Errorf("Backend = %q; want mongo", cfg.Store.Backend)
		}
		if cfg.Store.Mongo.URI != "mongodb://db:27017" || cfg.Store.Mongo.Database != "repertoire" {
			t.Errorf("Mongo = %+v", cfg.Store.Mongo)
		}
	})

	t.Run("memstore", func(t *testing.T) {
		defer saveRestoreBool(memStore, true)()
		cfg := config.NewConfig()
		applyServerFlags(cfg)
		if !cfg.Store.Badger.InMemory {
			t.Error("InMemory = false; want true")
		}
	})

	t.Run("store dir listen and redis", func(t *testing.T) {
		defer saveRestoreString(storeDir, "/tmp/rep")()
		defer saveRestoreString(listen, "127.0.0.1:9000")()
		defer saveRestoreString(redisURL, "localhost:6379")()
		cfg := config.NewConfig()
		applyServerFlags(cfg)
		if cfg.Store.Badger.Dir != "/tmp/rep" {
			t.Errorf("Badger.Dir = %q; want /tmp/rep", cfg.Store.Badger.Dir)
		}
		if cfg.Server.Listen != "127.0.0.1:9000" {
			t.Errorf("Listen = %q", cfg.Server.Listen)
		}
		if cfg.Session.RedisURL != "localhost:6379" {
			t.Errorf("RedisURL = %q", cfg.Session.RedisURL)
		}
	})
}

func TestApplyOutputFlags(t *testing.T) {
	t.Run("defaults keep config", func(t *testing.T) {
		cfg := config.NewConfig()
		applyOutputFlags(cfg)
		want := config.NewOutputConfig()
		if *cfg.Output != *want {
			t.Errorf("Output = %+v; want %+v", cfg.Output, want)
		}
	})

	t.Run("all set", func(t *testing.T) {
		defer saveRestoreBool(jsonOutput, true)()
		defer saveRestoreInt(lineLength, 40)()
		defer saveRestoreBool(noVariations, true)()
		defer saveRestoreBool(noMoveNumbers, true)()
		cfg := config.NewConfig()
		applyOutputFlags(cfg)
		if !cfg.Output.JSONFormat {
			t.Error("JSONFormat = false; want true")
		}
		if cfg.Output.MaxLineLength != 40 {
			t.Errorf("MaxLineLength = %d; want 40", cfg.Output.MaxLineLength)
		}
		if cfg.Output.KeepVariations || cfg.Output.KeepMoveNumbers {
			t.Errorf("Output = %+v; want variations and numbers off", cfg.Output)
		}
	})
}

func TestApplyFlags(t *testing.T) {
	defer saveRestoreString(logLevel, "debug")()
	defer saveRestoreBool(castleLetters, true)()
	cfg := config.NewConfig()
	applyFlags(cfg)
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q; want debug", cfg.Log.Level)
	}
	if !cfg.Notation.CastleLetters {
		t.Error("CastleLetters = false; want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if opts := treeOptions(cfg); len(opts) != 1 {
		t.Errorf("treeOptions() returned %d options; want 1", len(opts))
	}
}
