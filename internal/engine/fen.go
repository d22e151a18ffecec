package engine

import (
	"fmt"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = chess.InitialPlacement + " w KQkq - 0 1"

// FEN returns a full FEN string for the board and state. The castling field
// lists a right only while the king and the matching rook are still on their
// home squares. Clock fields are not tracked and are written as "0 1".
func FEN(b chess.Board, st State) string {
	var sb strings.Builder
	sb.WriteString(b.Placement())
	writeSideToMove(&sb, st.SideToMove)
	writeCastlingRights(&sb, &b, st)
	writeEnPassant(&sb, &b, st)
	sb.WriteString(" 0 1")
	return sb.String()
}

func writeSideToMove(sb *strings.Builder, side chess.Side) {
	if side == chess.White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
}

func writeCastlingRights(sb *strings.Builder, b *chess.Board, st State) {
	start := sb.Len()
	for _, side := range []chess.Side{chess.White, chess.Black} {
		rights := st.RightsFor(side)
		row := side.HomeRow()
		if !b.At(chess.Pos(row, chess.KingCol)).Is(side, chess.King) {
			continue
		}
		short, long := byte('K'), byte('Q')
		if side == chess.Black {
			short, long = 'k', 'q'
		}
		if rights.CanShort() && b.At(chess.Pos(row, chess.ShortRookCol)).Is(side, chess.Rook) {
			sb.WriteByte(short)
		}
		if rights.CanLong() && b.At(chess.Pos(row, chess.LongRookCol)).Is(side, chess.Rook) {
			sb.WriteByte(long)
		}
	}
	if sb.Len() == start {
		sb.WriteByte('-')
	}
}

func writeEnPassant(sb *strings.Builder, b *chess.Board, st State) {
	sb.WriteByte(' ')
	if sq, ok := doubleStepSquare(b, st.LastMove); ok {
		sb.WriteString(sq.String())
		return
	}
	sb.WriteByte('-')
}

// doubleStepSquare returns the square a pawn skipped over on its last move.
func doubleStepSquare(b *chess.Board, last *LastMove) (chess.Position, bool) {
	if last == nil || last.Piece.Kind != chess.Pawn || last.From.Col != last.To.Col {
		return chess.Position{}, false
	}
	if abs(last.To.Row-last.From.Row) != 2 || !b.At(last.To).Is(last.Piece.Side, chess.Pawn) {
		return chess.Position{}, false
	}
	return chess.Pos((last.From.Row+last.To.Row)/2, last.From.Col), true
}

// ParseFEN parses the placement, side to move, castling and en passant fields
// of a FEN string. Missing trailing fields take their starting-position
// defaults. An en passant square becomes a synthetic LastMove.
func ParseFEN(fen string) (chess.Board, State, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return chess.Board{}, State{}, &errors.ParseError{Err: errors.ErrInvalidPlacement, Input: fen, Got: "empty FEN"}
	}

	b, err := chess.ParsePlacement(fields[0])
	if err != nil {
		return chess.Board{}, State{}, err
	}

	st := NewState(chess.White)
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
		case "b":
			st.SideToMove = chess.Black
		default:
			return b, st, &errors.ParseError{Err: errors.ErrInvalidPlacement, Input: fen, Got: fmt.Sprintf("side %q", fields[1])}
		}
	}

	if len(fields) > 2 {
		st.Rights = parseCastlingRights(fields[2])
	}

	if len(fields) > 3 && fields[3] != "-" {
		sq, err := chess.ParseSquare(fields[3])
		if err != nil {
			return b, st, &errors.ParseError{Err: err, Input: fen, Got: fmt.Sprintf("en passant square %q", fields[3])}
		}
		mover := st.SideToMove.Opposite()
		st.LastMove = &LastMove{
			Piece: chess.Piece{Side: mover, Kind: chess.Pawn},
			From:  sq.Offset(-mover.Forward(), 0),
			To:    sq.Offset(mover.Forward(), 0),
		}
	}
	return b, st, nil
}

func parseCastlingRights(field string) [2]chess.CastlingRights {
	rights := [2]chess.CastlingRights{chess.NoCastling, chess.NoCastling}
	grant := func(side chess.Side, short bool) {
		r := rights[side]
		switch {
		case r == chess.NoCastling && short:
			r = chess.ShortOnly
		case r == chess.NoCastling:
			r = chess.LongOnly
		case r == chess.ShortOnly && !short, r == chess.LongOnly && short:
			r = chess.BothWings
		}
		rights[side] = r
	}
	for _, c := range field {
		switch c {
		case 'K':
			grant(chess.White, true)
		case 'Q':
			grant(chess.White, false)
		case 'k':
			grant(chess.Black, true)
		case 'q':
			grant(chess.Black, false)
		}
	}
	return rights
}
