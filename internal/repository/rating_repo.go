package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shark-krahs/game-platform/internal/model"
)

type RatingRepo interface {
	GetOrCreate(ctx context.Context, participantID, category string) (*model.RatingRecord, error)
	Get(ctx context.Context, participantID, category string) (*model.RatingRecord, error)
	Save(ctx context.Context, rec *model.RatingRecord) error
	ListByParticipant(ctx context.Context, participantID string) ([]*model.RatingRecord, error)
	TopByCategory(ctx context.Context, category string, limit int64) ([]*model.RatingRecord, error)
}

type ratingRepo struct {
	collection *mongo.Collection
}

func NewRatingRepo(client *mongo.Client, dbName string) RatingRepo {
	db := client.Database(dbName)
	return &ratingRepo{
		collection: db.Collection("ratings"),
	}
}

func (r *ratingRepo) GetOrCreate(ctx context.Context, participantID, category string) (*model.RatingRecord, error) {
	rec, err := r.Get(ctx, participantID, category)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}

	rec = &model.RatingRecord{
		ParticipantID: participantID,
		Category:      category,
		Rating:        model.DefaultRating,
		Deviation:     model.DefaultDeviation,
		Volatility:    model.DefaultVolatility,
		LastPlayed:    time.Now(),
	}
	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *ratingRepo) Get(ctx context.Context, participantID, category string) (*model.RatingRecord, error) {
	var rec model.RatingRecord
	err := r.collection.FindOne(ctx, bson.M{"participantId": participantID, "category": category}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // No rating yet
		}
		return nil, err
	}

	return &rec, nil
}

func (r *ratingRepo) Save(ctx context.Context, rec *model.RatingRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"participantId": rec.ParticipantID, "category": rec.Category}, rec, opts)
	return err
}

func (r *ratingRepo) ListByParticipant(ctx context.Context, participantID string) ([]*model.RatingRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"participantId": participantID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []*model.RatingRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}

	return recs, nil
}

func (r *ratingRepo) TopByCategory(ctx context.Context, category string, limit int64) ([]*model.RatingRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []*model.RatingRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}

	return recs, nil
}
