package config

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: NewConfig()}
}

// From starts the builder from an existing configuration.
func From(cfg *Config) *ConfigBuilder {
	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithListen sets the HTTP listen address.
func (b *ConfigBuilder) WithListen(addr string) *ConfigBuilder {
	b.cfg.Server.Listen = addr
	return b
}

// WithBadger selects the embedded store at dir.
func (b *ConfigBuilder) WithBadger(dir string) *ConfigBuilder {
	b.cfg.Store.Backend = BackendBadger
	b.cfg.Store.Badger.Dir = dir
	b.cfg.Store.Badger.InMemory = false
	return b
}

// WithBadgerInMemory selects the embedded store without touching disk.
func (b *ConfigBuilder) WithBadgerInMemory() *ConfigBuilder {
	b.cfg.Store.Backend = BackendBadger
	b.cfg.Store.Badger.InMemory = true
	return b
}

// WithMongo selects the MongoDB store.
func (b *ConfigBuilder) WithMongo(uri, database string) *ConfigBuilder {
	b.cfg.Store.Backend = BackendMongo
	b.cfg.Store.Mongo.URI = uri
	b.cfg.Store.Mongo.Database = database
	return b
}

// WithRedis keeps views in Redis at url.
func (b *ConfigBuilder) WithRedis(url string) *ConfigBuilder {
	b.cfg.Session.RedisURL = url
	return b
}

// WithLogLevel sets the log level name.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.Log.Level = level
	return b
}

// WithCastleLetters writes castles as O-O.
func (b *ConfigBuilder) WithCastleLetters(enabled bool) *ConfigBuilder {
	b.cfg.Notation.CastleLetters = enabled
	return b
}

// WithECOFile names positions from the opening table at path.
func (b *ConfigBuilder) WithECOFile(path string) *ConfigBuilder {
	b.cfg.Notation.ECOFile = path
	return b
}

// WithJSONOutput enables JSON output.
func (b *ConfigBuilder) WithJSONOutput(enabled bool) *ConfigBuilder {
	b.cfg.Output.JSONFormat = enabled
	return b
}

// WithMaxLineLength sets the maximum line length.
func (b *ConfigBuilder) WithMaxLineLength(length uint) *ConfigBuilder {
	b.cfg.Output.MaxLineLength = length
	return b
}
