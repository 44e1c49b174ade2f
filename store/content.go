package store

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aggregator-service/model"
)

// ContentStore persists scored content records in the content collection.
type ContentStore struct {
	col *mongo.Collection
}

func NewContentStore(db *mongo.Database) *ContentStore {
	s := &ContentStore{col: db.Collection("content")}
	s.ensureIndexes()
	return s
}

func (s *ContentStore) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			// Natural dedup key. The unique constraint backs up the
			// best-effort read-then-write duplicate check.
			Keys:    bson.D{{Key: "title", Value: 1}, {Key: "source", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "cognitive_utility_score", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "id", Value: 1}},
		},
	}

	if _, err := s.col.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("Warning: Failed to create content indexes: %v", err)
	}
}

// ExistsByTitleSource reports whether a record with the exact (title, source)
// pair is already stored. No normalization: near-duplicates are allowed
// through rather than risking dropped content.
func (s *ContentStore) ExistsByTitleSource(ctx context.Context, title, source string) (bool, error) {
	err := s.col.FindOne(ctx, bson.M{"title": title, "source": source}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Insert stores one new record. An insert rejected by the (title, source)
// unique index comes back as ErrDuplicate.
func (s *ContentStore) Insert(ctx context.Context, rec model.ContentRecord) error {
	_, err := s.col.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// ListRanked returns up to limit records with utility at or above minScore.
// When sorted is true the database orders by utility descending; otherwise
// the caller ranks the batch itself (the serendipity path).
func (s *ContentStore) ListRanked(ctx context.Context, limit int, minScore float64, sorted bool) ([]model.ContentRecord, error) {
	filter := bson.M{"cognitive_utility_score": bson.M{"$gte": minScore}}

	opts := options.Find().SetLimit(int64(limit))
	if sorted {
		opts.SetSort(bson.D{{Key: "cognitive_utility_score", Value: -1}})
	}

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.ContentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// IncrementCounter bumps one interaction counter by 1. A vanished content id
// is a no-op, not an error: feedback is fire-and-forget telemetry.
func (s *ContentStore) IncrementCounter(ctx context.Context, id, field string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{field: 1}})
	return err
}
