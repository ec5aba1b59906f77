package repo

import (
	"context"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/glade/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxRunPage = 100

// RunRepo stores the summaries of finished games.
type RunRepo struct {
	collection *mongo.Collection
}

// NewRunRepo creates a RunRepo on the given database and collection.
func NewRunRepo(client *mongo.Client, dbName, collectionName string) *RunRepo {
	return &RunRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// EnsureIndexes creates the per-user history index.
func (r *RunRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "finishedAt", Value: -1}},
	})
	return err
}

// Save inserts a run summary.
func (r *RunRepo) Save(run *dmn.Run) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// ByUser returns up to limit runs of a user, most recent first.
func (r *RunRepo) ByUser(userID uuid.UUID, limit int) ([]*dmn.Run, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if limit <= 0 || limit > maxRunPage {
		limit = maxRunPage
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "finishedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("finding runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := make([]*dmn.Run, 0)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decoding runs: %w", err)
	}
	return runs, nil
}
