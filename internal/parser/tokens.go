// Package parser reads PGN movetext into a repertoire tree. Variations
// become branches; comments, NAGs and tags other than FEN are skipped.
package parser

// TokenType represents the type of a lexical token.
type TokenType int

const (
	EOFToken TokenType = iota
	TagToken
	CommentToken
	NAGToken
	MoveNumber
	RAVStart
	RAVEnd
	MoveToken
	TerminatingResult
	ErrorToken
)

// tokenTypeNames maps token types to their string representations.
var tokenTypeNames = [...]string{
	EOFToken:          "EOF",
	TagToken:          "TAG",
	CommentToken:      "COMMENT",
	NAGToken:          "NAG",
	MoveNumber:        "MOVE_NUMBER",
	RAVStart:          "RAV_START",
	RAVEnd:            "RAV_END",
	MoveToken:         "MOVE",
	TerminatingResult: "TERMINATING_RESULT",
	ErrorToken:        "ERROR_TOKEN",
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// Token represents a lexical token with its value.
type Token struct {
	Type TokenType

	// Text is the move, NAG, result, comment or tag name
	Text string

	// Value is the tag value of a TagToken
	Value string

	// Line for error reporting
	Line uint
}
