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

// SourceStore persists feed source configuration in the rss_sources
// collection.
type SourceStore struct {
	col *mongo.Collection
}

func NewSourceStore(db *mongo.Database) *SourceStore {
	s := &SourceStore{col: db.Collection("rss_sources")}
	s.ensureIndexes()
	return s
}

func (s *SourceStore) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "url", Value: 1}}},
	}

	if _, err := s.col.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("Warning: Failed to create source indexes: %v", err)
	}
}

func (s *SourceStore) Insert(ctx context.Context, src model.FeedSource) error {
	_, err := s.col.InsertOne(ctx, src)
	return err
}

func (s *SourceStore) List(ctx context.Context) ([]model.FeedSource, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sources []model.FeedSource
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// ListEnabled returns the sources eligible for scheduled fetching.
func (s *SourceStore) ListEnabled(ctx context.Context) ([]model.FeedSource, error) {
	cursor, err := s.col.Find(ctx, bson.M{"enabled": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sources []model.FeedSource
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func (s *SourceStore) FindByID(ctx context.Context, id string) (*model.FeedSource, error) {
	var src model.FeedSource
	err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&src)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// ExistsByURL backs the default-source bootstrap: url is the natural dedup
// key for sources.
func (s *SourceStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	err := s.col.FindOne(ctx, bson.M{"url": url}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// UpdateLastFetched records the completion of a fetch attempt, whether or not
// it produced articles.
func (s *SourceStore) UpdateLastFetched(ctx context.Context, id string, t time.Time) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"last_fetched": t}})
	return err
}
