package config

// OutputConfig holds settings related to CLI output formatting.
type OutputConfig struct {
	// MaxLineLength is the maximum line length for movetext output
	MaxLineLength uint `mapstructure:"max_line_length"`

	// JSONFormat enables JSON output instead of movetext
	JSONFormat bool `mapstructure:"json"`

	// KeepMoveNumbers controls whether move numbers are included
	KeepMoveNumbers bool `mapstructure:"keep_move_numbers"`

	// KeepVariations controls whether side lines are written in parentheses
	KeepVariations bool `mapstructure:"keep_variations"`
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		MaxLineLength:   80,
		KeepMoveNumbers: true,
		KeepVariations:  true,
	}
}

// Validate checks that the output configuration is valid.
func (o *OutputConfig) Validate() error {
	if o.MaxLineLength < 10 {
		return invalid("output.max_line_length %d is below 10", o.MaxLineLength)
	}
	return nil
}

// NotationConfig controls how moves are written.
type NotationConfig struct {
	// CastleLetters writes castles as O-O instead of 0-0
	CastleLetters bool `mapstructure:"castle_letters"`

	// ECOFile replaces the built-in opening table; empty keeps it
	ECOFile string `mapstructure:"eco_file"`
}

// NewNotationConfig creates a NotationConfig with default values.
func NewNotationConfig() *NotationConfig {
	return &NotationConfig{}
}
