package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/engine"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// ImportResult summarises what ParseInto added to a tree.
type ImportResult struct {
	Games    int
	Lines    int // move lists ended, main lines and variations alike
	NewMoves int
	Deepest  tree.NodeID
}

// Parser reads PGN games into a tree.
type Parser struct {
	lexer        *Lexer
	currentToken *Token
	ravLevel     uint
	deepest      int
}

// NewParser creates a new parser for the given reader.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// nextToken gets the next token from the lexer.
func (p *Parser) nextToken() {
	p.currentToken = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %w: %s", p.currentToken.Line, errors.ErrInvalidMovetext, fmt.Sprintf(format, args...))
}

// ParseInto plays every game of the input into t. Each game starts at the
// root of t; a FEN tag must describe that root position. Moves already in
// the tree are shared. On error, the moves read so far stay in t.
func (p *Parser) ParseInto(t *tree.Tree) (*ImportResult, error) {
	res := &ImportResult{Deepest: t.Root()}
	if p.currentToken == nil {
		p.nextToken()
	}

	for p.currentToken.Type != EOFToken {
		if err := p.parseGame(t, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// parseGame reads tags, movetext and the result of one game.
func (p *Parser) parseGame(t *tree.Tree, res *ImportResult) error {
	started := false
	for p.currentToken.Type == TagToken || p.currentToken.Type == CommentToken {
		if p.currentToken.Type == TagToken {
			started = true
			if p.currentToken.Text == "FEN" {
				if err := p.checkStart(t, p.currentToken.Value); err != nil {
					return err
				}
			}
		}
		p.nextToken()
	}

	before := res.Lines
	if err := p.parseMoveList(t, t.Root(), res); err != nil {
		return err
	}
	started = started || res.Lines > before

	switch p.currentToken.Type {
	case TerminatingResult:
		started = true
		p.nextToken()
	case TagToken, EOFToken:
	case ErrorToken:
		return p.errorf("unexpected %q", p.currentToken.Text)
	default:
		return p.errorf("unexpected %s", p.currentToken.Type)
	}
	if started {
		res.Games++
	}
	return nil
}

// checkStart verifies that a FEN tag names the root position of t.
func (p *Parser) checkStart(t *tree.Tree, fen string) error {
	root, _ := t.Node(t.Root())
	want := strings.Fields(engine.FEN(root.Board, t.State(t.Root())))
	got := strings.Fields(fen)
	if len(got) < 2 || got[0] != want[0] || got[1] != want[1] {
		return p.errorf("FEN %q does not match the start position", fen)
	}
	return nil
}

// parseMoveList plays moves from start until the list ends, branching at
// each variation from the position before the preceding move.
func (p *Parser) parseMoveList(t *tree.Tree, start tree.NodeID, res *ImportResult) error {
	cur, before := start, start
	moved := false

	for {
		switch p.currentToken.Type {
		case MoveNumber, CommentToken, NAGToken:
			p.nextToken()

		case MoveToken:
			id, err := p.playMove(t, cur, res)
			if err != nil {
				return err
			}
			before, cur, moved = cur, id, true
			p.nextToken()

		case RAVStart:
			if !moved {
				return p.errorf("variation before any move")
			}
			p.ravLevel++
			p.nextToken()
			if err := p.parseMoveList(t, before, res); err != nil {
				return err
			}
			if p.currentToken.Type == TerminatingResult {
				p.nextToken()
			}
			if p.currentToken.Type != RAVEnd {
				return p.errorf("missing ')' to close variation")
			}
			p.ravLevel--
			p.nextToken()

		case ErrorToken:
			return p.errorf("unexpected %q", p.currentToken.Text)

		case RAVEnd:
			if p.ravLevel == 0 {
				return p.errorf("unexpected ')'")
			}
			return p.endList(moved, res)

		default:
			return p.endList(moved, res)
		}
	}
}

func (p *Parser) endList(moved bool, res *ImportResult) error {
	if moved {
		res.Lines++
	}
	return nil
}

func (p *Parser) playMove(t *tree.Tree, cur tree.NodeID, res *ImportResult) (tree.NodeID, error) {
	m, err := DecodeMove(p.currentToken.Text)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", p.currentToken.Line, err)
	}
	pm, err := m.Resolve(t, cur)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", p.currentToken.Line, err)
	}
	id, isNew, err := t.Play(cur, pm.From, pm.To, pm.Promotion)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", p.currentToken.Line, err)
	}
	if isNew {
		res.NewMoves++
	}
	if depth := len(t.AllMoves(id)); depth > p.deepest {
		p.deepest, res.Deepest = depth, id
	}
	return id, nil
}

// ParseLines reads PGN into a scratch tree rooted at fen (the standard start
// when empty) and returns its root-to-leaf lines.
func ParseLines(r io.Reader, fen string) ([][]tree.PathMove, error) {
	t := tree.New()
	if fen != "" {
		var err error
		if t, err = tree.NewFromFEN(fen); err != nil {
			return nil, err
		}
	}
	if _, err := NewParser(r).ParseInto(t); err != nil {
		return nil, err
	}

	var lines [][]tree.PathMove
	for _, leaf := range t.Leaves() {
		if leaf != t.Root() {
			lines = append(lines, t.Line(leaf))
		}
	}
	return lines, nil
}
