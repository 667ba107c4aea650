package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"codeclash/internal/cache"
	"codeclash/internal/config"
	"codeclash/internal/repository"
	"codeclash/internal/service"
	"codeclash/internal/transport/rest"
)

// @title CodeClash Duel API
// @version 1.0
// @description Duel coordination and daily challenge backend for the CodeClash trainer
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	duelRepo := repository.NewDuelRepo(db)
	exerciseRepo := repository.NewExerciseRepo(db)

	// Initialize caches
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	duelSvc := service.NewDuelService(duelRepo, exerciseRepo)
	dailySvc := service.NewDailyService(exerciseRepo, leaderboard)

	// Start the expiry reaper
	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	reaper := service.NewReaper(duelSvc, cfg.ReapInterval, cfg.DuelTTLMinutes)
	go reaper.Run(reaperCtx)
	log.Printf("Reaper started: every %s, deleting duels older than %dm", cfg.ReapInterval, cfg.DuelTTLMinutes)

	// Create router with container
	container := &rest.Container{
		AuthService:  authSvc,
		DuelService:  duelSvc,
		DailyService: dailySvc,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST   /v1/duels")
		log.Println("  POST   /v1/duels/{code}/join")
		log.Println("  POST   /v1/duels/{code}/ready")
		log.Println("  PATCH  /v1/duels/{code}/score")
		log.Println("  GET    /v1/duels/{code}")
		log.Println("  DELETE /v1/duels/{code}")
		log.Println("  GET    /v1/daily")
		log.Println("  POST   /v1/daily/score")
		log.Println("  GET    /v1/daily/leaderboard")
		log.Println("  GET    /v1/leaderboard/xp")
		log.Println("  WS     /v1/ws/duels/{code}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopReaper()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
