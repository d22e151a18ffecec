package parser

import (
	"fmt"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// SANMove is a move decoded from its text, before the board is consulted.
type SANMove struct {
	Text      string
	Piece     chess.PieceKind // chess.Pawn for pawn moves
	FromCol   int             // -1 unless given
	FromRow   int             // -1 unless given
	To        chess.Position
	Promotion chess.PieceKind
	Castle    chess.CastleType
}

// isCol returns true if c is a valid column (file) character.
func isCol(c byte) bool {
	return c >= 'a' && c <= 'h'
}

// isRank returns true if c is a valid rank character.
func isRank(c byte) bool {
	return c >= '1' && c <= '8'
}

// isPiece returns the piece kind named by c. German letters are accepted;
// a lowercase 'b' is a file, never a bishop.
func isPiece(c byte) chess.PieceKind {
	switch c {
	case 'K':
		return chess.King
	case 'Q', 'D':
		return chess.Queen
	case 'R', 'T':
		return chess.Rook
	case 'N', 'S':
		return chess.Knight
	case 'B', 'L':
		return chess.Bishop
	}
	return chess.NoKind
}

// isCapture returns true if c is a capture or separator character.
func isCapture(c byte) bool {
	return c == 'x' || c == 'X' || c == ':' || c == '-'
}

// isCastlingChar returns true if c is a castling character.
func isCastlingChar(c byte) bool {
	return c == 'O' || c == '0' || c == 'o'
}

// isCheck returns true if c is a check indicator.
func isCheck(c byte) bool {
	return c == '+' || c == '#'
}

func badMove(text, got string) error {
	return &errors.ParseError{Err: errors.ErrIllegalMove, Input: text, Got: got}
}

// DecodeMove parses SAN such as "Nbd7", "exd5", "e8=Q+" or "O-O-O".
func DecodeMove(text string) (SANMove, error) {
	m := SANMove{Text: text, FromCol: -1, FromRow: -1}

	s := text
	for len(s) > 0 && isCheck(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	if s == "" {
		return m, badMove(text, "empty move")
	}

	if isCastlingChar(s[0]) {
		return decodeCastle(m, s)
	}

	if m.Piece = isPiece(s[0]); m.Piece != chess.NoKind {
		s = s[1:]
	} else if isCol(s[0]) {
		m.Piece = chess.Pawn
		// Promotion suffix: e8=Q, e8Q
		if n := len(s); n > 2 && isPiece(s[n-1]) != chess.NoKind {
			m.Promotion = isPiece(s[n-1])
			s = strings.TrimSuffix(s[:n-1], "=")
		}
	} else {
		return m, badMove(text, fmt.Sprintf("%q", s[0]))
	}

	// Drop capture marks; what remains is [hint]destination.
	var body []byte
	for i := 0; i < len(s); i++ {
		if !isCapture(s[i]) {
			body = append(body, s[i])
		}
	}
	if len(body) < 2 || len(body) > 4 {
		return m, badMove(text, "length")
	}

	dest := string(body[len(body)-2:])
	to, err := chess.ParseSquare(dest)
	if err != nil {
		return m, badMove(text, "destination "+dest)
	}
	m.To = to

	for _, c := range body[:len(body)-2] {
		switch {
		case isCol(c) && m.FromCol < 0 && m.FromRow < 0:
			m.FromCol = int(c - 'a')
		case isRank(c) && m.FromRow < 0:
			m.FromRow = int('8' - c)
		default:
			return m, badMove(text, fmt.Sprintf("origin %q", body[:len(body)-2]))
		}
	}
	if m.Piece == chess.Pawn && m.FromRow >= 0 && m.FromCol < 0 {
		return m, badMove(text, "pawn rank hint")
	}
	return m, nil
}

func decodeCastle(m SANMove, s string) (SANMove, error) {
	var marks int
	for i := 0; i < len(s); i++ {
		switch {
		case isCastlingChar(s[i]):
			marks++
		case s[i] == '-':
		default:
			return m, badMove(m.Text, "castle")
		}
	}
	m.Piece = chess.King
	switch marks {
	case 2:
		m.Castle = chess.CastledShort
	case 3:
		m.Castle = chess.CastledLong
	default:
		return m, badMove(m.Text, "castle")
	}
	return m, nil
}

// Resolve finds the legal move at id that m describes. A move matching no
// legal move wraps ErrIllegalMove; one matching several wraps
// ErrInvalidDisambiguation.
func (m SANMove) Resolve(t *tree.Tree, id tree.NodeID) (tree.PathMove, error) {
	n, ok := t.Node(id)
	if !ok {
		return tree.PathMove{}, errors.Wrapf(errors.ErrUnknownNode, "node %d", id)
	}
	side := t.SideToMove(id)

	if m.Castle != chess.NotCastled {
		from := chess.Pos(side.HomeRow(), 4)
		to := chess.Pos(side.HomeRow(), 6)
		if m.Castle == chess.CastledLong {
			to = chess.Pos(side.HomeRow(), 2)
		}
		if !n.Board.At(from).Is(side, chess.King) || !t.IsMoveLegal(id, from, to) {
			return tree.PathMove{}, badMove(m.Text, "castle not allowed")
		}
		return tree.PathMove{From: from, To: to}, nil
	}

	var found []tree.PathMove
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			if (m.FromRow >= 0 && row != m.FromRow) || (m.FromCol >= 0 && col != m.FromCol) {
				continue
			}
			from := chess.Pos(row, col)
			if !n.Board.At(from).Is(side, m.Piece) {
				continue
			}
			for _, lm := range t.LegalMoves(id, from) {
				if lm.To != m.To || lm.Kind == chess.ShortCastle || lm.Kind == chess.LongCastle {
					continue
				}
				if m.Promotion != chess.NoKind && lm.Kind != chess.Promotion {
					continue
				}
				found = append(found, tree.PathMove{From: from, To: m.To, Promotion: m.Promotion})
			}
		}
	}

	switch len(found) {
	case 0:
		return tree.PathMove{}, badMove(m.Text, "no legal move")
	case 1:
		return found[0], nil
	}
	return tree.PathMove{}, &errors.ParseError{Err: errors.ErrInvalidDisambiguation, Input: m.Text, Got: "ambiguous move"}
}
