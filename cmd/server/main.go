package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/shark-krahs/game-platform/internal/cache"
	"github.com/shark-krahs/game-platform/internal/config"
	"github.com/shark-krahs/game-platform/internal/logging"
	"github.com/shark-krahs/game-platform/internal/repository"
	"github.com/shark-krahs/game-platform/internal/service"
	"github.com/shark-krahs/game-platform/internal/transport/rest"
	"github.com/shark-krahs/game-platform/internal/transport/ws"
)

func main() {
	logger := logging.Init()
	defer logger.Sync()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB")

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to ping Redis", zap.Error(err))
	}
	logger.Info("connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub()

	// Repositories and caches
	ratingRepo := repository.NewRatingRepo(mongoClient, cfg.MongoDB)
	savedGameRepo := repository.NewSavedGameRepo(mongoClient, cfg.MongoDB)
	activeGames := cache.NewActiveGameCache(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Services
	authSvc := service.NewAuthService()
	gameSvc := service.NewGameService(wsHub, ratingRepo, savedGameRepo, activeGames)
	gameSvc.SetLeaderboard(leaderboard)

	// Matchmaking sweep
	go gameSvc.Run(ctx)

	// Router
	container := &rest.Container{
		AuthService:   authSvc,
		GameService:   gameSvc,
		SavedGameRepo: savedGameRepo,
		RatingRepo:    ratingRepo,
		Leaderboard:   leaderboard,
		WSHub:         wsHub,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
