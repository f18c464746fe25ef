package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type statusMongoRepo struct {
	collection *mongo.Collection
}

// NewStatusMongoRepo wraps the collection and ensures a unique index on name.
func NewStatusMongoRepo(ctx context.Context, collection *mongo.Collection) (videojobs.StatusRepository, error) {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create name index: %w", err)
	}
	return &statusMongoRepo{collection: collection}, nil
}

// Every write stamps its timestamps with the server clock.
const serverNow = "$$NOW"

func pendingUpdate() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "status", Value: models.JobStatusPending},
			{Key: "created_at", Value: serverNow},
			{Key: "updated_at", Value: serverNow},
		}}},
	}
}

func statusUpdate(status models.JobStatus) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
			{Key: "created_at", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$created_at", serverNow}}}},
			{Key: "updated_at", Value: serverNow},
		}}},
	}
}

func (r *statusMongoRepo) CreatePending(ctx context.Context, name string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"name": name}, pendingUpdate(), options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to create pending status: %w", err)
	}
	return nil
}

func (r *statusMongoRepo) MarkProcessing(ctx context.Context, name string) error {
	return r.updateStatus(ctx, name, models.JobStatusProcessing)
}

func (r *statusMongoRepo) MarkSuccess(ctx context.Context, name string) error {
	return r.updateStatus(ctx, name, models.JobStatusSuccess)
}

func (r *statusMongoRepo) MarkFailed(ctx context.Context, name string) error {
	return r.updateStatus(ctx, name, models.JobStatusFailed)
}

func (r *statusMongoRepo) updateStatus(ctx context.Context, name string, status models.JobStatus) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"name": name}, statusUpdate(status), options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to update status to %s: %w", status, err)
	}
	return nil
}

func (r *statusMongoRepo) Get(ctx context.Context, name string) (*models.StatusRecord, error) {
	record := &models.StatusRecord{}
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, videojobs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}
	return record, nil
}
