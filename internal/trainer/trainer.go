// Package trainer is the use-case layer of the repertoire service. It keeps
// one replayed tree per opened repertoire, validates and records moves, and
// keeps the store and the view pointer in step with the tree.
package trainer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/eco"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/hashing"
	"github.com/lgbarn/repertoire-go/internal/session"
	"github.com/lgbarn/repertoire-go/internal/store"
	"github.com/lgbarn/repertoire-go/internal/tree"
	"github.com/lgbarn/repertoire-go/internal/worker"
)

// Service serves repertoires backed by a Store. Calls on one repertoire are
// serialised; different repertoires proceed in parallel.
type Service struct {
	store    store.Store
	views    session.Views
	log      *zap.SugaredLogger
	treeOpt  []tree.Option
	workers  int
	openings *eco.Classifier

	mu   sync.Mutex
	open map[string]*entry
}

// entry is an opened repertoire, or one being loaded until ready closes.
type entry struct {
	ready chan struct{}
	rep   *repertoire
	err   error
}

type repertoire struct {
	mu    sync.Mutex
	info  store.Repertoire
	tree  *tree.Tree
	index *hashing.ThreadSafeIndex
	last  tree.NodeID // deepest node of the replayed lines

	openings *eco.Classifier
}

// Option configures a Service.
type Option func(*Service)

// WithTreeOptions passes options to every tree the service builds.
func WithTreeOptions(opts ...tree.Option) Option {
	return func(s *Service) {
		s.treeOpt = append(s.treeOpt, opts...)
	}
}

// WithWorkers sets how many repertoires Preload replays at once.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.workers = n
		}
	}
}

// WithClassifier names node positions with c.
func WithClassifier(c *eco.Classifier) Option {
	return func(s *Service) {
		s.openings = c
	}
}

// NewService creates a service over st and views.
func NewService(st store.Store, views session.Views, log *zap.SugaredLogger, opts ...Option) *Service {
	s := &Service{
		store:   st,
		views:   views,
		log:     log,
		workers: 4,
		open:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRepertoire stores a new repertoire starting from fen, or from the
// standard position when fen is empty.
func (s *Service) CreateRepertoire(ctx context.Context, name, fen string) (store.Repertoire, error) {
	if strings.TrimSpace(name) == "" {
		return store.Repertoire{}, errors.ErrInvalidName
	}
	if fen != "" {
		if _, err := tree.NewFromFEN(fen); err != nil {
			return store.Repertoire{}, err
		}
	}
	return s.store.CreateRepertoire(ctx, name, fen)
}

// Repertoires lists every stored repertoire.
func (s *Service) Repertoires(ctx context.Context) ([]store.Repertoire, error) {
	return s.store.Repertoires(ctx)
}

// Repertoire returns the stored description of an opened repertoire.
func (s *Service) Repertoire(ctx context.Context, id string) (store.Repertoire, error) {
	r, err := s.get(ctx, id)
	if err != nil {
		return store.Repertoire{}, err
	}
	return r.info, nil
}

// Preload opens the given repertoires in parallel and returns one result per
// id, in order.
func (s *Service) Preload(ctx context.Context, ids []string) []worker.ProcessResult {
	return worker.Run(ctx, ids, func(ctx context.Context, item worker.WorkItem) worker.ProcessResult {
		res := worker.ProcessResult{RepertoireID: item.RepertoireID, Index: item.Index}
		rep, err := s.get(ctx, item.RepertoireID)
		if err != nil {
			res.Error = err
			return res
		}
		rep.mu.Lock()
		res.Nodes = rep.tree.Len()
		rep.mu.Unlock()
		return res
	}, worker.WithWorkers(s.workers))
}

// get returns the opened repertoire, loading it on first use.
func (s *Service) get(ctx context.Context, id string) (*repertoire, error) {
	s.mu.Lock()
	e, ok := s.open[id]
	if !ok {
		e = &entry{ready: make(chan struct{})}
		s.open[id] = e
		s.mu.Unlock()

		e.rep, e.err = s.load(ctx, id)
		if e.err != nil {
			s.mu.Lock()
			delete(s.open, id)
			s.mu.Unlock()
		}
		close(e.ready)
		return e.rep, e.err
	}
	s.mu.Unlock()

	select {
	case <-e.ready:
		return e.rep, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// load replays the stored lines of a repertoire. A line with an illegal
// move is kept up to that move and logged.
func (s *Service) load(ctx context.Context, id string) (*repertoire, error) {
	info, err := s.store.Repertoire(ctx, id)
	if err != nil {
		return nil, err
	}
	paths, err := s.store.Paths(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "loading lines of %q", id)
	}

	t := tree.New(s.treeOpt...)
	if info.FEN != "" {
		if t, err = tree.NewFromFEN(info.FEN, s.treeOpt...); err != nil {
			return nil, errors.Wrapf(err, "repertoire %q", id)
		}
	}

	lines := make([][]tree.PathMove, len(paths))
	for i, p := range paths {
		lines[i] = p
	}
	last, err := t.Replay(lines)
	if err != nil {
		s.log.Warnw("stored lines rejected", "repertoire", id, "error", err)
	}

	replayed := hashing.NewIndex()
	transpositions := replayed.AddTree(t)
	index := hashing.NewThreadSafeIndex()
	index.LoadFromIndex(replayed)
	s.log.Infow("repertoire opened",
		"repertoire", id, "lines", len(paths), "nodes", t.Len(), "transpositions", transpositions)

	return &repertoire{info: info, tree: t, index: index, last: last, openings: s.openings}, nil
}

// with runs fn on the opened repertoire under its lock.
func (s *Service) with(ctx context.Context, id string, fn func(r *repertoire) error) error {
	r, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

// lookup resolves a node hash; an empty hash names the root.
func (r *repertoire) lookup(hash string) (tree.NodeID, error) {
	if hash == "" {
		return r.tree.Root(), nil
	}
	id, ok := r.tree.Lookup(hash)
	if !ok {
		return 0, errors.Wrapf(errors.ErrUnknownNode, "node %.12s", hash)
	}
	return id, nil
}

// Forget drops the cached tree of a repertoire; the next call replays it
// from the store.
func (s *Service) Forget(id string) {
	s.mu.Lock()
	delete(s.open, id)
	s.mu.Unlock()
}

// squareOrErr parses a square name.
func squareOrErr(name string) (chess.Position, error) {
	sq, err := chess.ParseSquare(name)
	if err != nil {
		return chess.Position{}, fmt.Errorf("square %q: %w", name, err)
	}
	return sq, nil
}
