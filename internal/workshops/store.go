package workshops

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/stagebeat/workshop-notifier/internal/config"
	"github.com/stagebeat/workshop-notifier/internal/model"
)

// Connect opens a client to the workshop document store
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// Store provides read-only access to the workshop collection. Workshops are
// owned by the ingestion service; this pipeline never writes them.
type Store struct {
	coll *mongo.Collection
}

// NewStore wraps the workshop collection
func NewStore(client *mongo.Client, cfg config.MongoConfig) *Store {
	return &Store{coll: client.Database(cfg.Database).Collection(cfg.Collection)}
}

// Upcoming returns every workshop except recurring classes, which never
// get reminders.
func (s *Store) Upcoming(ctx context.Context) ([]model.Workshop, error) {
	filter := bson.M{"event_type": bson.M{"$ne": model.EventTypeRegulars}}
	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("workshop scan: %w", err)
	}
	defer cur.Close(ctx)

	var out []model.Workshop
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("workshop scan decode: %w", err)
	}
	return out, nil
}

// Watch opens a change stream over the collection, filtered server-side to
// insert/update/replace and returning the full current document per event.
func (s *Store) Watch(ctx context.Context) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: bson.D{
				{Key: "$in", Value: bson.A{"insert", "update", "replace"}},
			}},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	cs, err := s.coll.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, fmt.Errorf("workshop change stream: %w", err)
	}
	return cs, nil
}

// Ping verifies the document store connection
func (s *Store) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}
