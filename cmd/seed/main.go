package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"codeclash/internal/config"
	"codeclash/internal/content"
	"codeclash/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	exercises := repository.NewExerciseRepo(client.Database(cfg.MongoDatabase))

	pool := content.Pool()
	for i := range pool {
		if err := exercises.Upsert(ctx, &pool[i]); err != nil {
			log.Fatalf("Failed to upsert exercise %s: %v", pool[i].Slug, err)
		}
	}

	fmt.Printf("Seeded %d exercises into %s\n", len(pool), cfg.MongoDatabase)
}
