package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lgbarn/repertoire-go/internal/config"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// Storage keys. Ids never contain '/'.
const (
	prefixRepertoire = "rep/"
	prefixMove       = "move/"
	prefixEdge       = "edge/"    // edge/<parent>/<child>
	prefixEdgeUp     = "edge-up/" // edge-up/<child>/<parent>
	prefixLeaf       = "leaf/"    // leaf/<repertoire>/<move>
)

// BadgerStore wraps BadgerDB for embedded persistent storage.
type BadgerStore struct {
	db  *badger.DB
	log *zap.SugaredLogger
}

// NewBadgerStore opens the store described by cfg.
func NewBadgerStore(cfg config.BadgerConfig, log *zap.SugaredLogger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = badgerLogger{log.Named("badger")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger at %q", cfg.Dir)
	}
	return &BadgerStore{db: db, log: log}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateRepertoire stores a new repertoire under a fresh id.
func (s *BadgerStore) CreateRepertoire(ctx context.Context, name, fen string) (Repertoire, error) {
	if err := ctx.Err(); err != nil {
		return Repertoire{}, err
	}
	rep := Repertoire{ID: uuid.New().String(), Name: strings.TrimSpace(name), FEN: fen}
	data, err := json.Marshal(rep)
	if err != nil {
		return Repertoire{}, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixRepertoire+rep.ID), data)
	})
	if err != nil {
		return Repertoire{}, errors.Wrap(err, "failed to add repertoire")
	}
	s.log.Infow("repertoire created", "id", rep.ID, "name", rep.Name)
	return rep, nil
}

// Repertoires lists every repertoire ordered by name.
func (s *BadgerStore) Repertoires(ctx context.Context) ([]Repertoire, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reps := []Repertoire{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(prefixRepertoire)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rep Repertoire
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rep)
			}); err != nil {
				return err
			}
			reps = append(reps, rep)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch repertoires")
	}
	sort.Slice(reps, func(i, j int) bool {
		if reps[i].Name != reps[j].Name {
			return reps[i].Name < reps[j].Name
		}
		return reps[i].ID < reps[j].ID
	})
	return reps, nil
}

// Repertoire returns one repertoire or ErrRepertoireNotFound.
func (s *BadgerStore) Repertoire(ctx context.Context, id string) (Repertoire, error) {
	if err := ctx.Err(); err != nil {
		return Repertoire{}, err
	}
	var rep Repertoire
	err := s.db.View(func(txn *badger.Txn) error {
		return getRepertoire(txn, id, &rep)
	})
	return rep, err
}

func getRepertoire(txn *badger.Txn, id string, rep *Repertoire) error {
	item, err := txn.Get([]byte(prefixRepertoire + id))
	if err == badger.ErrKeyNotFound {
		return errors.Wrapf(errors.ErrRepertoireNotFound, "repertoire %q", id)
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, rep)
	})
}

// Paths returns every line from the root to one of the repertoire's leaves.
func (s *BadgerStore) Paths(ctx context.Context, repertoireID string) ([]Path, error) {
	if _, err := s.Repertoire(ctx, repertoireID); err != nil {
		return nil, err
	}
	var leaves []string
	err := s.db.View(func(txn *badger.Txn) error {
		leaves = keysWithPrefix(txn, prefixLeaf+repertoireID+"/")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collectPaths(ctx, s, leaves)
}

func (s *BadgerStore) move(ctx context.Context, id string) (tree.MoveRecord, []string, bool, error) {
	var (
		rec     tree.MoveRecord
		parents []string
		found   bool
	)
	if err := ctx.Err(); err != nil {
		return rec, nil, false, err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixMove + id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		}); err != nil {
			return err
		}
		parents = keysWithPrefix(txn, prefixEdgeUp+id+"/")
		return nil
	})
	return rec, parents, found, err
}

// SaveMove upserts rec, links it under parentID and moves the repertoire's
// leaf pointer from the parent to rec. An existing move keeps its stored
// fields.
func (s *BadgerStore) SaveMove(ctx context.Context, repertoireID, parentID string, rec tree.MoveRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		var rep Repertoire
		if err := getRepertoire(txn, repertoireID, &rep); err != nil {
			return err
		}

		moveKey := []byte(prefixMove + rec.ID)
		if _, err := txn.Get(moveKey); err == badger.ErrKeyNotFound {
			if err := txn.Set(moveKey, data); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		sets := []string{
			prefixEdge + parentID + "/" + rec.ID,
			prefixEdgeUp + rec.ID + "/" + parentID,
			prefixLeaf + repertoireID + "/" + rec.ID,
		}
		for _, key := range sets {
			if err := txn.Set([]byte(key), nil); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(prefixLeaf + repertoireID + "/" + parentID))
	})
	if err != nil {
		return errors.Wrapf(err, "saving move %.12s", rec.ID)
	}
	s.log.Debugw("move saved", "repertoire", repertoireID, "move", rec.Name, "id", rec.ID)
	return nil
}

// keysWithPrefix returns the key suffixes after prefix.
func keysWithPrefix(txn *badger.Txn, prefix string) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []string
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		out = append(out, string(it.Item().Key()[len(p):]))
	}
	return out
}

// badgerLogger routes badger's logging through zap.
type badgerLogger struct {
	log *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.log.Errorf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.log.Warnf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.log.Debugf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.log.Debugf(format, args...) }
