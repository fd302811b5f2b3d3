package repository

import (
	"context"
	"time"

	"github.com/malabro/eshop-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LedgerRepository interface {
	ListProductLedger(ctx context.Context, productID primitive.ObjectID) ([]models.InventoryLedgerEntry, error)
	ListMovementsSince(ctx context.Context, since time.Time) ([]models.InventoryLedgerEntry, error)
}

type MongoLedgerRepository struct {
	DB *mongo.Database
}

func NewLedgerRepository(db *mongo.Database) LedgerRepository {
	return &MongoLedgerRepository{DB: db}
}

func (r *MongoLedgerRepository) ListProductLedger(ctx context.Context, productID primitive.ObjectID) ([]models.InventoryLedgerEntry, error) {
	return r.find(ctx, bson.M{"productId": productID})
}

func (r *MongoLedgerRepository) ListMovementsSince(ctx context.Context, since time.Time) ([]models.InventoryLedgerEntry, error) {
	return r.find(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}

func (r *MongoLedgerRepository) find(ctx context.Context, filter bson.M) ([]models.InventoryLedgerEntry, error) {
	cursor, err := r.DB.Collection("inventoryLedger").Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.InventoryLedgerEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
