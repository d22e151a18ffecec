package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/repertoire-go/internal/config"
	"github.com/lgbarn/repertoire-go/internal/delivery"
	"github.com/lgbarn/repertoire-go/internal/eco"
	"github.com/lgbarn/repertoire-go/internal/session"
	"github.com/lgbarn/repertoire-go/internal/store"
	"github.com/lgbarn/repertoire-go/internal/trainer"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

const shutdownTimeout = 5 * time.Second

// runServer wires the store, the views and the service behind the HTTP API
// and serves until ctx is done.
func runServer(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	st, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warnw("closing store", "error", err)
		}
	}()

	views, closeViews, err := openViews(ctx, cfg.Session)
	if err != nil {
		return err
	}
	defer closeViews()

	openings, err := loadClassifier(cfg.Notation)
	if err != nil {
		return err
	}
	log.Debugw("opening table loaded", "entries", openings.EntriesLoaded())

	svc := trainer.NewService(st, views, log,
		trainer.WithTreeOptions(treeOptions(cfg)...),
		trainer.WithClassifier(openings))
	if *preload {
		preloadAll(ctx, svc, log)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           delivery.NewRepertoireHandler(svc, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server is running on %s", cfg.Server.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.StoreConfig, log *zap.SugaredLogger) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		st, err := store.NewMongoStore(ctx, cfg.Mongo, cfg.Timeout, log)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.BackendBadger:
		st, err := store.NewBadgerStore(cfg.Badger, log)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// openViews returns Redis views when configured and memory views otherwise.
func openViews(ctx context.Context, cfg *config.SessionConfig) (session.Views, func(), error) {
	if cfg.RedisURL == "" {
		return session.NewMemoryViews(cfg.TTL), func() {}, nil
	}
	client, err := session.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisViews(client, cfg.TTL), func() { _ = client.Close() }, nil
}

// loadClassifier reads the configured opening table, or returns the
// built-in one when none is configured.
func loadClassifier(cfg *config.NotationConfig) (*eco.Classifier, error) {
	if cfg.ECOFile == "" {
		return eco.Default(), nil
	}
	c := eco.NewClassifier()
	if err := c.LoadFromFile(cfg.ECOFile); err != nil {
		return nil, err
	}
	return c, nil
}

func treeOptions(cfg *config.Config) []tree.Option {
	var opts []tree.Option
	if cfg.Notation.CastleLetters {
		opts = append(opts, tree.WithCastleLetters())
	}
	return opts
}

func preloadAll(ctx context.Context, svc *trainer.Service, log *zap.SugaredLogger) {
	reps, err := svc.Repertoires(ctx)
	if err != nil {
		log.Warnw("listing repertoires for preload", "error", err)
		return
	}
	ids := make([]string, len(reps))
	for i, rep := range reps {
		ids[i] = rep.ID
	}

	nodes, failed := 0, 0
	for _, res := range svc.Preload(ctx, ids) {
		if res.Error != nil {
			failed++
			log.Warnw("preload failed", "repertoire", res.RepertoireID, "error", res.Error)
			continue
		}
		nodes += res.Nodes
	}
	log.Infow("repertoires preloaded", "count", len(ids)-failed, "failed", failed, "nodes", nodes)
}
