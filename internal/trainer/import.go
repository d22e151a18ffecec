package trainer

import (
	"context"
	"io"

	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/parser"
)

// ImportResult is the outcome of Import.
type ImportResult struct {
	Lines    int  `json:"lines"`
	NewMoves int  `json:"newMoves"`
	Synced   bool `json:"synced"`
}

// Import reads PGN movetext and adds its lines, variations included, to a
// repertoire. Nothing is added when the movetext has an illegal move. Moves
// the store rejected stay in the tree and make Import return the result
// with an error wrapping ErrStoreSync.
func (s *Service) Import(ctx context.Context, repertoireID string, pgn io.Reader) (*ImportResult, error) {
	var (
		res     *ImportResult
		syncErr error
	)
	err := s.with(ctx, repertoireID, func(r *repertoire) error {
		lines, err := parser.ParseLines(pgn, r.info.FEN)
		if err != nil {
			return errors.Wrap(err, "importing movetext")
		}

		res = &ImportResult{Lines: len(lines), Synced: true}
		for _, line := range lines {
			cur := r.tree.Root()
			for _, m := range line {
				id, isNew, err := r.tree.Play(cur, m.From, m.To, m.Promotion)
				if err != nil {
					return err
				}
				if isNew {
					res.NewMoves++
					if err := s.persist(ctx, r, id); err != nil {
						res.Synced = false
						syncErr = err
					}
				}
				cur = id
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Infow("movetext imported", "repertoire", repertoireID, "lines", res.Lines, "new", res.NewMoves)
	return res, syncErr
}
