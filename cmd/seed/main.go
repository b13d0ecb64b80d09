package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shark-krahs/game-platform/internal/model"
	"github.com/shark-krahs/game-platform/internal/repository"
)

// Seeds demo rating records so the leaderboards are not empty on a
// fresh install.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "gamedb"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	ratingRepo := repository.NewRatingRepo(client, dbName)

	names := []string{
		"QuickQuartz", "SolidSparrow", "BoldBadger", "CalmCondor",
		"ZenZephyr", "IronIbis", "MellowMoose", "RapidRaven",
	}
	categories := []string{
		"pentago_blitz", "pentago_rapid", "tetris_bullet", "tetris_blitz",
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	seeded := 0
	for _, category := range categories {
		for i, name := range names {
			rec := &model.RatingRecord{
				ParticipantID: fmt.Sprintf("seed_%s_%d", category, i),
				Category:      category,
				Rating:        1200 + rng.Float64()*800,
				Deviation:     80 + rng.Float64()*120,
				Volatility:    model.DefaultVolatility,
				GamesPlayed:   10 + rng.Intn(200),
				LastPlayed:    time.Now().Add(-time.Duration(rng.Intn(72)) * time.Hour),
			}
			if err := ratingRepo.Save(ctx, rec); err != nil {
				log.Fatalf("Failed to seed rating for %s: %v", name, err)
			}
			seeded++
		}
	}

	fmt.Printf("Seeded %d rating records across %d categories\n", seeded, len(categories))
}
