// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"

	"github.com/lgbarn/repertoire-go/internal/config"
)

var (
	// General
	configFile = flag.String("config", "", "Configuration file (YAML, JSON or TOML)")
	help       = flag.Bool("h", false, "Show help")
	version    = flag.Bool("version", false, "Show version")
	logLevel   = flag.String("loglevel", "", "Log level: debug, info, warn, error")

	// Server mode
	serve    = flag.Bool("serve", false, "Run the HTTP API")
	listen   = flag.String("listen", "", "HTTP listen address (default from config)")
	storeDir = flag.String("store", "", "Badger data directory")
	memStore = flag.Bool("memstore", false, "Keep the store in memory")
	mongoURI = flag.String("mongo", "", "MongoDB URI; selects the MongoDB store")
	mongoDB  = flag.String("mongodb", "repertoire", "MongoDB database name")
	redisURL = flag.String("redis", "", "Redis address for view pointers")
	preload  = flag.Bool("preload", false, "Replay every stored repertoire at startup")

	// Offline replay
	line          = flag.String("line", "", "Line of coordinate moves to replay, e.g. \"e2e4 e7e5 g1f3\"")
	fen           = flag.String("fen", "", "Start position in FEN (default: standard start)")
	pgnInput      = flag.Bool("pgn", false, "Read input and -line as PGN movetext")
	jsonOutput    = flag.Bool("J", false, "Output in JSON format")
	records       = flag.Bool("records", false, "Output the move records of the deepest line")
	lineLength    = flag.Int("w", 0, "Maximum line length (default from config)")
	noVariations  = flag.Bool("V", false, "Output only the main line")
	noMoveNumbers = flag.Bool("nonumbers", false, "Don't output move numbers")
	castleLetters = flag.Bool("castleletters", false, "Write castling as O-O instead of 0-0")
	checkOnly     = flag.Bool("check", false, "Only validate the lines")
	stats         = flag.Bool("stats", false, "Report tree statistics")
	hashes        = flag.Bool("hashes", false, "Output the content hash of every node")

	// Line selection
	matchMoves    = flag.String("match", "", "Only lines containing this SAN sequence, e.g. \"1. e4 c5\"")
	variationFile = flag.String("variations", "", "File of move or position sequences selecting lines")
	material      = flag.String("material", "", "Only lines reaching this material, e.g. \"QR:qr\"")
	exactMaterial = flag.Bool("exactmaterial", false, "Require the -material balance exactly")
	ecoReport     = flag.Bool("eco", false, "Name the opening of every line")
	ecoFile       = flag.String("ecofile", "", "Opening table replacing the built-in one")
)

// applyFlags applies command-line flags to the configuration.
func applyFlags(cfg *config.Config) {
	applyServerFlags(cfg)
	applyOutputFlags(cfg)

	b := config.From(cfg)
	if *logLevel != "" {
		b.WithLogLevel(*logLevel)
	}
	if *castleLetters {
		b.WithCastleLetters(true)
	}
	if *ecoFile != "" {
		b.WithECOFile(*ecoFile)
	}
}

// selectingLines reports whether the flags ask for a list of lines rather
// than the whole tree.
func selectingLines() bool {
	return *matchMoves != "" || *variationFile != "" || *material != "" || *ecoReport
}

// applyServerFlags configures listening and the backends. Flags left at
// their zero value keep the configured setting.
func applyServerFlags(cfg *config.Config) {
	b := config.From(cfg)
	if *listen != "" {
		b.WithListen(*listen)
	}
	switch {
	case *mongoURI != "":
		b.WithMongo(*mongoURI, *mongoDB)
	case *memStore:
		b.WithBadgerInMemory()
	case *storeDir != "":
		b.WithBadger(*storeDir)
	}
	if *redisURL != "" {
		b.WithRedis(*redisURL)
	}
}

// applyOutputFlags configures offline output.
func applyOutputFlags(cfg *config.Config) {
	b := config.From(cfg)
	if *jsonOutput {
		b.WithJSONOutput(true)
	}
	if *lineLength > 0 {
		b.WithMaxLineLength(uint(*lineLength))
	}
	if *noVariations {
		cfg.Output.KeepVariations = false
	}
	if *noMoveNumbers {
		cfg.Output.KeepMoveNumbers = false
	}
}
