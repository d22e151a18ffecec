// Package chess provides the board model shared by the rules engine and the
// repertoire tree.
package chess

// Side is the colour of a piece or of the player making a move.
type Side int

const (
	White Side = iota
	Black
)

// String returns the lower-case name of the side, as used in JSON records.
func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == White {
		return Black
	}
	return White
}

// Forward returns the row delta a pawn of this side advances by.
// White pawns move towards row 0.
func (s Side) Forward() int {
	if s == White {
		return -1
	}
	return 1
}

// HomeRow returns the row holding this side's king and rooks at the start.
func (s Side) HomeRow() int {
	if s == White {
		return 7
	}
	return 0
}

// PawnRow returns the row this side's pawns start on.
func (s Side) PawnRow() int {
	if s == White {
		return 6
	}
	return 1
}

// LastRow returns the row on which this side's pawns promote.
func (s Side) LastRow() int {
	if s == White {
		return 0
	}
	return 7
}

// PieceKind is the type of a piece, independent of its side.
type PieceKind int

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the name of the piece kind.
func (k PieceKind) String() string {
	names := []string{"Empty", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Letter returns the SAN letter for the kind. Pawns and empty squares have none.
func (k PieceKind) Letter() string {
	switch k {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

// KindFromLetter converts an upper- or lower-case piece letter to its kind.
func KindFromLetter(c byte) PieceKind {
	switch c {
	case 'P', 'p':
		return Pawn
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'R', 'r':
		return Rook
	case 'Q', 'q':
		return Queen
	case 'K', 'k':
		return King
	}
	return NoKind
}

// Piece is the content of a square: either NoPiece or a side and kind.
type Piece struct {
	Side Side
	Kind PieceKind
}

// NoPiece is the empty square value.
var NoPiece = Piece{}

// W returns a white piece of the given kind.
func W(kind PieceKind) Piece {
	return Piece{Side: White, Kind: kind}
}

// B returns a black piece of the given kind.
func B(kind PieceKind) Piece {
	return Piece{Side: Black, Kind: kind}
}

// IsEmpty reports whether p is the empty value.
func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Is reports whether p is a piece of the given side and kind.
func (p Piece) Is(side Side, kind PieceKind) bool {
	return p.Kind == kind && p.Side == side
}

// IsEnemyOf reports whether p is occupied by the opponent of side.
func (p Piece) IsEnemyOf(side Side) bool {
	return !p.IsEmpty() && p.Side != side
}

// FENChar returns the placement character of the piece: upper case for
// white, lower case for black, '.' for empty.
func (p Piece) FENChar() byte {
	if p.IsEmpty() {
		return '.'
	}
	c := "?PNBRQK"[p.Kind]
	if p.Side == Black {
		c += 'a' - 'A'
	}
	return c
}

// String returns the FEN character of the piece.
func (p Piece) String() string {
	return string(p.FENChar())
}

// Position is a board coordinate. Row 0 is the eighth rank, Col 0 is the a-file.
type Position struct {
	Row int
	Col int
}

// Pos is shorthand for Position{Row: row, Col: col}.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// InBoard reports whether the position lies on the 8x8 board.
func (p Position) InBoard() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Offset returns the position shifted by the given deltas.
func (p Position) Offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// File returns the file letter of the position ('a'..'h').
func (p Position) File() byte {
	return byte('a' + p.Col)
}

// Rank returns the rank digit of the position ('1'..'8').
func (p Position) Rank() byte {
	return byte('8' - p.Row)
}

// String returns the square name, e.g. "e4".
func (p Position) String() string {
	if !p.InBoard() {
		return "-"
	}
	return string([]byte{p.File(), p.Rank()})
}

// MoveKind classifies how a move changes the board.
type MoveKind int

const (
	Normal MoveKind = iota
	Promotion
	EnPassant
	ShortCastle
	LongCastle
)

// String returns the name of the move kind.
func (k MoveKind) String() string {
	switch k {
	case Promotion:
		return "promotion"
	case EnPassant:
		return "en passant"
	case ShortCastle:
		return "short castling"
	case LongCastle:
		return "long castling"
	}
	return "normal"
}

// CastlingRights describes which castles a side may still perform.
type CastlingRights int

const (
	BothWings CastlingRights = iota
	NoCastling
	ShortOnly
	LongOnly
)

// String returns the name of the rights value.
func (r CastlingRights) String() string {
	switch r {
	case NoCastling:
		return "none"
	case ShortOnly:
		return "short"
	case LongOnly:
		return "long"
	}
	return "both"
}

// CanShort reports whether the short castle is still permitted.
func (r CastlingRights) CanShort() bool {
	return r == BothWings || r == ShortOnly
}

// CanLong reports whether the long castle is still permitted.
func (r CastlingRights) CanLong() bool {
	return r == BothWings || r == LongOnly
}

// WithoutShort returns the rights after losing the short castle.
func (r CastlingRights) WithoutShort() CastlingRights {
	switch r {
	case BothWings:
		return LongOnly
	case ShortOnly:
		return NoCastling
	}
	return r
}

// WithoutLong returns the rights after losing the long castle.
func (r CastlingRights) WithoutLong() CastlingRights {
	switch r {
	case BothWings:
		return ShortOnly
	case LongOnly:
		return NoCastling
	}
	return r
}

// CastleType is the result of asking whether a move was a castle.
type CastleType int

const (
	NotCastled CastleType = iota
	CastledShort
	CastledLong
)

// String returns the name of the castle type.
func (c CastleType) String() string {
	switch c {
	case CastledShort:
		return "short"
	case CastledLong:
		return "long"
	}
	return "none"
}

// Board dimensions and the files used by castling.
const (
	BoardSize = 8

	KingCol      = 4
	ShortRookCol = 7
	LongRookCol  = 0
)
