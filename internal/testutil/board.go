package testutil

import (
	"strings"
	"testing"

	"github.com/lgbarn/repertoire-go/internal/chess"
)

// LineMove is one coordinate move of a test line, e.g. "e7e8q".
type LineMove struct {
	From  chess.Position
	To    chess.Position
	Promo chess.PieceKind
}

// MustSquare parses a square name and calls t.Fatal on failure.
func MustSquare(t testing.TB, name string) chess.Position {
	t.Helper()
	sq, err := chess.ParseSquare(name)
	if err != nil {
		t.Fatalf("MustSquare(%q): %v", name, err)
	}
	return sq
}

// MustBoard parses a FEN placement field and calls t.Fatal on failure.
func MustBoard(t testing.TB, placement string) chess.Board {
	t.Helper()
	b, err := chess.ParsePlacement(placement)
	if err != nil {
		t.Fatalf("MustBoard(%q): %v", placement, err)
	}
	return b
}

// MustLine parses a space separated list of coordinate moves such as
// "e2e4 e7e5 g1f3". A fifth character names a promotion piece.
func MustLine(t testing.TB, line string) []LineMove {
	t.Helper()
	var moves []LineMove
	for _, word := range strings.Fields(line) {
		if len(word) != 4 && len(word) != 5 {
			t.Fatalf("MustLine: bad move %q", word)
		}
		m := LineMove{
			From: MustSquare(t, word[0:2]),
			To:   MustSquare(t, word[2:4]),
		}
		if len(word) == 5 {
			m.Promo = chess.KindFromLetter(word[4])
			if m.Promo == chess.NoKind {
				t.Fatalf("MustLine: bad promotion in %q", word)
			}
		}
		moves = append(moves, m)
	}
	return moves
}
