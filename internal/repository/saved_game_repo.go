package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shark-krahs/game-platform/internal/model"
)

type SavedGameRepo interface {
	Create(ctx context.Context, game *model.SavedGame) error
	GetByID(ctx context.Context, id string) (*model.SavedGame, error)
	ListByParticipant(ctx context.Context, participantID string, limit int64) ([]*model.SavedGame, error)
	Delete(ctx context.Context, id string, participantID string) error
}

type savedGameRepo struct {
	collection *mongo.Collection
}

func NewSavedGameRepo(client *mongo.Client, dbName string) SavedGameRepo {
	db := client.Database(dbName)
	return &savedGameRepo{
		collection: db.Collection("saved_games"),
	}
}

func (r *savedGameRepo) Create(ctx context.Context, game *model.SavedGame) error {
	// Generate an id if not provided
	if game.ID == "" {
		game.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.collection.InsertOne(ctx, game)
	return err
}

func (r *savedGameRepo) GetByID(ctx context.Context, id string) (*model.SavedGame, error) {
	var game model.SavedGame
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Game not found
		}
		return nil, err
	}

	return &game, nil
}

func (r *savedGameRepo) ListByParticipant(ctx context.Context, participantID string, limit int64) ([]*model.SavedGame, error) {
	// Newest games first
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"participantId": participantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var games []*model.SavedGame
	if err := cursor.All(ctx, &games); err != nil {
		return nil, err
	}

	return games, nil
}

func (r *savedGameRepo) Delete(ctx context.Context, id string, participantID string) error {
	// Owner check in the filter keeps deletes scoped to the caller
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "participantId": participantID})
	return err
}
