package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/lgbarn/repertoire-go/internal/config"
	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

const (
	collRepertoires = "repertoires"
	collMoves       = "moves"
	collLeaves      = "leaves"
)

// moveDocument is a stored move with the ids of every parent it was played
// from.
type moveDocument struct {
	tree.MoveRecord `bson:",inline"`
	Parents         []string `bson:"parents"`
}

// leafDocument marks the end of one of a repertoire's lines.
type leafDocument struct {
	ID         string `bson:"_id"`
	Repertoire string `bson:"repertoire"`
	Move       string `bson:"move"`
}

// MongoStore keeps repertoires in MongoDB.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	log     *zap.SugaredLogger
}

// NewMongoStore connects to the database named in cfg and pings it.
func NewMongoStore(ctx context.Context, cfg config.MongoConfig, timeout time.Duration, log *zap.SugaredLogger) (*MongoStore, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)

	ctxConnect, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctxConnect, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to MongoDB")
	}
	if err := client.Ping(ctxConnect, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging MongoDB")
	}

	log.Infow("connected to MongoDB", "database", cfg.Database)
	return &MongoStore{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: timeout,
		log:     log,
	}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// CreateRepertoire stores a new repertoire under a fresh id.
func (s *MongoStore) CreateRepertoire(ctx context.Context, name, fen string) (Repertoire, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rep := Repertoire{ID: uuid.New().String(), Name: strings.TrimSpace(name), FEN: fen}
	if _, err := s.db.Collection(collRepertoires).InsertOne(ctx, rep); err != nil {
		s.log.Errorf("failed to add repertoire: %v", err)
		return Repertoire{}, errors.Wrap(err, "failed to add repertoire")
	}
	s.log.Infow("repertoire created", "id", rep.ID, "name", rep.Name)
	return rep, nil
}

// Repertoires lists every repertoire ordered by name.
func (s *MongoStore) Repertoires(ctx context.Context) ([]Repertoire, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(collRepertoires).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch repertoires")
	}
	defer cursor.Close(ctx)

	reps := []Repertoire{}
	if err := cursor.All(ctx, &reps); err != nil {
		return nil, errors.Wrap(err, "failed to fetch repertoires")
	}
	return reps, nil
}

// Repertoire returns one repertoire or ErrRepertoireNotFound.
func (s *MongoStore) Repertoire(ctx context.Context, id string) (Repertoire, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rep Repertoire
	err := s.db.Collection(collRepertoires).FindOne(ctx, bson.M{"_id": id}).Decode(&rep)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Repertoire{}, errors.Wrapf(errors.ErrRepertoireNotFound, "repertoire %q", id)
	}
	if err != nil {
		return Repertoire{}, err
	}
	return rep, nil
}

// Paths returns every line from the root to one of the repertoire's leaves.
func (s *MongoStore) Paths(ctx context.Context, repertoireID string) ([]Path, error) {
	if _, err := s.Repertoire(ctx, repertoireID); err != nil {
		return nil, err
	}

	findCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	cursor, err := s.db.Collection(collLeaves).Find(findCtx, bson.M{"repertoire": repertoireID})
	if err != nil {
		return nil, err
	}
	var docs []leafDocument
	if err := cursor.All(findCtx, &docs); err != nil {
		return nil, err
	}

	leaves := make([]string, 0, len(docs))
	for _, d := range docs {
		leaves = append(leaves, d.Move)
	}
	return collectPaths(ctx, s, leaves)
}

func (s *MongoStore) move(ctx context.Context, id string) (tree.MoveRecord, []string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc moveDocument
	err := s.db.Collection(collMoves).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tree.MoveRecord{}, nil, false, nil
	}
	if err != nil {
		return tree.MoveRecord{}, nil, false, err
	}
	return doc.MoveRecord, doc.Parents, true, nil
}

// SaveMove upserts rec, links it under parentID and moves the repertoire's
// leaf pointer from the parent to rec. An existing move keeps its stored
// fields.
func (s *MongoStore) SaveMove(ctx context.Context, repertoireID, parentID string, rec tree.MoveRecord) error {
	if _, err := s.Repertoire(ctx, repertoireID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	onCreate := bson.M{"name": rec.Name, "from": rec.From, "to": rec.To}
	if rec.Promotion != "" {
		onCreate["promotion"] = rec.Promotion
	}
	update := bson.M{
		"$setOnInsert": onCreate,
		"$addToSet":    bson.M{"parents": parentID},
	}
	_, err := s.db.Collection(collMoves).UpdateOne(ctx, bson.M{"_id": rec.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		s.log.Errorf("failed to save move: %v", err)
		return errors.Wrapf(err, "saving move %.12s", rec.ID)
	}

	leaves := s.db.Collection(collLeaves)
	if _, err := leaves.DeleteOne(ctx, bson.M{"_id": leafID(repertoireID, parentID)}); err != nil {
		return errors.Wrapf(err, "moving leaf of %q", repertoireID)
	}
	leaf := leafDocument{ID: leafID(repertoireID, rec.ID), Repertoire: repertoireID, Move: rec.ID}
	_, err = leaves.ReplaceOne(ctx, bson.M{"_id": leaf.ID}, leaf, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, "moving leaf of %q", repertoireID)
	}

	s.log.Debugw("move saved", "repertoire", repertoireID, "move", rec.Name, "id", rec.ID)
	return nil
}

func leafID(repertoireID, moveID string) string {
	return repertoireID + "/" + moveID
}
