package chess

import (
	"fmt"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/errors"
)

// Board is an 8x8 grid of pieces indexed [row][col].
// It is a value type: assigning a Board copies every square.
type Board [BoardSize][BoardSize]Piece

// InitialPlacement is the FEN placement field of the standard starting position.
const InitialPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// InitialBoard returns the standard starting position.
func InitialBoard() Board {
	var b Board
	backRank := []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < BoardSize; col++ {
		b[0][col] = B(backRank[col])
		b[1][col] = B(Pawn)
		b[6][col] = W(Pawn)
		b[7][col] = W(backRank[col])
	}
	return b
}

// At returns the piece on the given square, or NoPiece when off the board.
func (b *Board) At(p Position) Piece {
	if !p.InBoard() {
		return NoPiece
	}
	return b[p.Row][p.Col]
}

// IsEmptyAt reports whether the square is on the board and empty.
func (b *Board) IsEmptyAt(p Position) bool {
	return p.InBoard() && b[p.Row][p.Col].IsEmpty()
}

// Set places a piece on the given square. Off-board positions are ignored.
func (b *Board) Set(p Position, piece Piece) {
	if p.InBoard() {
		b[p.Row][p.Col] = piece
	}
}

// Clear empties the given square.
func (b *Board) Clear(p Position) {
	b.Set(p, NoPiece)
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() Board {
	return *b
}

// Placement returns the FEN piece-placement field of the board, row 0
// (the eighth rank) first. It is the canonical serialisation used for hashing.
func (b *Board) Placement() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < BoardSize; col++ {
			piece := b[row][col]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.FENChar())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// String renders the board as eight lines of FEN characters, '.' for empty.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			sb.WriteByte(b[row][col].FENChar())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParsePlacement builds a board from a FEN piece-placement field. Any fields
// after the first space are ignored.
func ParsePlacement(fen string) (Board, error) {
	var b Board
	field := strings.TrimSpace(fen)
	if i := strings.IndexByte(field, ' '); i >= 0 {
		field = field[:i]
	}

	rows := strings.Split(field, "/")
	if len(rows) != BoardSize {
		return b, &errors.ParseError{
			Err:   errors.ErrInvalidPlacement,
			Input: fen,
			Got:   fmt.Sprintf("%d ranks", len(rows)),
		}
	}

	for row, rank := range rows {
		col := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			switch {
			case c >= '1' && c <= '8':
				col += int(c - '0')
			default:
				kind := KindFromLetter(c)
				if kind == NoKind {
					return b, &errors.ParseError{
						Err:    errors.ErrInvalidPlacement,
						Input:  fen,
						Offset: i,
						Got:    fmt.Sprintf("piece character %q", c),
					}
				}
				if col >= BoardSize {
					return b, &errors.ParseError{
						Err:    errors.ErrInvalidPlacement,
						Input:  fen,
						Offset: i,
						Got:    fmt.Sprintf("rank %q with more than %d files", rank, BoardSize),
					}
				}
				side := White
				if c >= 'a' && c <= 'z' {
					side = Black
				}
				b[row][col] = Piece{Side: side, Kind: kind}
				col++
			}
		}
		if col != BoardSize {
			return b, &errors.ParseError{
				Err:   errors.ErrInvalidPlacement,
				Input: fen,
				Got:   fmt.Sprintf("rank %q with %d files", rank, col),
			}
		}
	}
	return b, nil
}

// MustParsePlacement is like ParsePlacement but panics on malformed input.
// It is intended for constant positions in tests and fixtures.
func MustParsePlacement(fen string) Board {
	b, err := ParsePlacement(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseSquare converts a square name such as "e4" to a position.
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("square %q: %w", s, errors.ErrInvalidSquare)
	}
	return Position{Row: int('8' - s[1]), Col: int(s[0] - 'a')}, nil
}
