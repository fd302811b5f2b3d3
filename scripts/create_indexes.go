package main

import (
	"context"
	"time"

	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run this script once to create database indexes.
// The server also ensures them at startup.
// Usage: go run scripts/create_indexes.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logrus.Info("Connecting to MongoDB...")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI).SetServerSelectionTimeout(30*time.Second))
	if err != nil {
		logrus.Fatalf("Failed to create client: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logrus.Fatalf("Failed to create indexes: %v", err)
	}

	for collection, indexes := range repository.Indexes() {
		logrus.WithFields(logrus.Fields{"collection": collection, "count": len(indexes)}).Info("Indexes ready")
	}
	logrus.Info("All indexes created successfully")
}
