package parser

import (
	"bufio"
	"io"
	"strings"
)

// Lexer splits PGN input into tokens.
type Lexer struct {
	r           *bufio.Reader
	line        uint
	atLineStart bool
}

// NewLexer creates a new lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r), line: 1, atLineStart: true}
}

// LineNumber returns the current input line.
func (l *Lexer) LineNumber() uint {
	return l.line
}

func (l *Lexer) read() (byte, bool) {
	c, err := l.r.ReadByte()
	if err != nil {
		return 0, false
	}
	if c == '\n' {
		l.line++
		l.atLineStart = true
	} else {
		l.atLineStart = false
	}
	return c, true
}

func (l *Lexer) peek() (byte, bool) {
	b, err := l.r.Peek(1)
	if err != nil {
		return 0, false
	}
	return b[0], true
}

// readWhile consumes bytes while keep holds and returns them.
func (l *Lexer) readWhile(keep func(byte) bool) string {
	var sb strings.Builder
	for {
		c, ok := l.peek()
		if !ok || !keep(c) {
			return sb.String()
		}
		l.read()
		sb.WriteByte(c)
	}
}

// skipLine consumes the rest of the current line.
func (l *Lexer) skipLine() string {
	s := l.readWhile(func(c byte) bool { return c != '\n' })
	l.read()
	return s
}

// NextToken returns the next token; at the end of input it keeps
// returning EOFToken.
func (l *Lexer) NextToken() *Token {
	for {
		lineStart := l.atLineStart
		c, ok := l.read()
		if !ok {
			return &Token{Type: EOFToken, Line: l.line}
		}
		tok := &Token{Line: l.line}

		switch {
		case isSpace(c):
			continue
		case c == '%' && lineStart:
			// Escape line
			l.skipLine()
			continue
		case c == '[':
			return l.readTag(tok)
		case c == '{':
			text := l.readWhile(func(c byte) bool { return c != '}' })
			if _, ok := l.read(); !ok {
				tok.Type, tok.Text = ErrorToken, "unterminated comment"
				return tok
			}
			tok.Type, tok.Text = CommentToken, strings.TrimSpace(text)
		case c == ';':
			tok.Type, tok.Text = CommentToken, strings.TrimSpace(l.skipLine())
		case c == '(':
			tok.Type = RAVStart
		case c == ')':
			tok.Type = RAVEnd
		case c == '*':
			tok.Type, tok.Text = TerminatingResult, "*"
		case c == '$':
			tok.Type, tok.Text = NAGToken, "$"+l.readWhile(isDigit)
		case c == '!' || c == '?':
			tok.Type, tok.Text = NAGToken, string(c)+l.readWhile(func(c byte) bool { return c == '!' || c == '?' })
		case isDigit(c):
			l.readNumeric(tok, c)
		case isAlpha(c):
			tok.Type, tok.Text = MoveToken, string(c)+l.readWhile(isSymbolChar)
		default:
			tok.Type, tok.Text = ErrorToken, string(c)
		}
		return tok
	}
}

// readTag reads `name "value"]` after the opening bracket.
func (l *Lexer) readTag(tok *Token) *Token {
	l.readWhile(isSpace)
	name := l.readWhile(func(c byte) bool { return isAlpha(c) || isDigit(c) || c == '_' })
	l.readWhile(isSpace)

	if c, ok := l.read(); !ok || c != '"' || name == "" {
		tok.Type, tok.Text = ErrorToken, "malformed tag "+name
		return tok
	}
	var value strings.Builder
	for {
		c, ok := l.read()
		if !ok || c == '\n' {
			tok.Type, tok.Text = ErrorToken, "unterminated tag "+name
			return tok
		}
		if c == '"' {
			break
		}
		if c == '\\' {
			if next, ok := l.peek(); ok && (next == '"' || next == '\\') {
				c, _ = l.read()
			}
		}
		value.WriteByte(c)
	}
	l.readWhile(isSpace)
	if c, ok := l.read(); !ok || c != ']' {
		tok.Type, tok.Text = ErrorToken, "missing ']' after tag "+name
		return tok
	}
	tok.Type, tok.Text, tok.Value = TagToken, name, value.String()
	return tok
}

// readNumeric reads a move number, a result or a castle written with zeros.
func (l *Lexer) readNumeric(tok *Token, first byte) {
	digits := string(first) + l.readWhile(isDigit)
	if c, ok := l.peek(); ok && c == '.' {
		l.readWhile(func(c byte) bool { return c == '.' })
		tok.Type, tok.Text = MoveNumber, digits
		return
	}

	text := digits + l.readWhile(isSymbolChar)
	switch {
	case text == "1-0" || text == "0-1" || text == "1/2-1/2":
		tok.Type = TerminatingResult
	case strings.HasPrefix(text, "0-0"):
		tok.Type = MoveToken
	case text == digits:
		tok.Type = MoveNumber
	default:
		tok.Type = ErrorToken
	}
	tok.Text = text
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSymbolChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || strings.IndexByte("-/=+#:", c) >= 0
}
