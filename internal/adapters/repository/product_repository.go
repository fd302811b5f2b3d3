package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/malabro/eshop-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error)
	ListAllProducts(ctx context.Context, activeOnly bool) ([]models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	CreateProduct(ctx context.Context, product models.Product, userID *primitive.ObjectID) (models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, set bson.M, stockEntry *models.InventoryLedgerEntry) (models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	ToggleProductStatus(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	UnitLabels(ctx context.Context, productIDs []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type MongoProductRepository struct {
	DB *mongo.Database
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &MongoProductRepository{DB: db}
}

func (r *MongoProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error) {
	collection := r.DB.Collection("products")

	query := bson.M{}
	if filter.ActiveOnly {
		query["isActive"] = true
	}
	if filter.CategoryID != nil {
		query["categoryId"] = *filter.CategoryID
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}

	opts := options.Find().
		SetSkip(filter.Skip).
		SetLimit(filter.Limit).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *MongoProductRepository) ListAllProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	query := bson.M{}
	if activeOnly {
		query["isActive"] = true
	}
	cursor, err := r.DB.Collection("products").Find(ctx, query, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := r.DB.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	return product, translate(err)
}

// CreateProduct inserts the product and its "Initial Stock" ledger entry in one transaction.
func (r *MongoProductRepository) CreateProduct(ctx context.Context, product models.Product, userID *primitive.ObjectID) (models.Product, error) {
	session, err := r.DB.Client().StartSession()
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer session.EndSession(ctx)

	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := r.DB.Collection("products").InsertOne(sessCtx, product); err != nil {
			return nil, err
		}
		entry := models.InventoryLedgerEntry{
			ID:             primitive.NewObjectID(),
			ProductID:      product.ID,
			ChangeType:     models.ChangeInitialStock,
			QuantityChange: product.StockQuantity,
			NewQuantity:    product.StockQuantity,
			UserID:         userID,
			Notes:          "Product created",
			CreatedAt:      now,
		}
		if _, err := r.DB.Collection("inventoryLedger").InsertOne(sessCtx, entry); err != nil {
			return nil, err
		}
		return product, nil
	}

	if _, err := session.WithTransaction(ctx, callback); err != nil {
		return models.Product{}, translate(err)
	}
	return product, nil
}

// UpdateProduct applies set and, when stockEntry is given, records the stock
// change in the ledger within the same transaction.
func (r *MongoProductRepository) UpdateProduct(ctx context.Context, id primitive.ObjectID, set bson.M, stockEntry *models.InventoryLedgerEntry) (models.Product, error) {
	session, err := r.DB.Client().StartSession()
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer session.EndSession(ctx)

	set["updatedAt"] = time.Now().UTC()

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		var updated models.Product
		err := r.DB.Collection("products").FindOneAndUpdate(sessCtx,
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			return nil, err
		}
		if stockEntry != nil {
			stockEntry.ID = primitive.NewObjectID()
			stockEntry.ProductID = id
			stockEntry.NewQuantity = updated.StockQuantity
			stockEntry.CreatedAt = time.Now().UTC()
			if _, err := r.DB.Collection("inventoryLedger").InsertOne(sessCtx, stockEntry); err != nil {
				return nil, err
			}
		}
		return updated, nil
	}

	result, err := session.WithTransaction(ctx, callback)
	if err != nil {
		return models.Product{}, translate(err)
	}
	return result.(models.Product), nil
}

func (r *MongoProductRepository) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.DB.Collection("products").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) ToggleProductStatus(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"isActive":  bson.M{"$not": bson.A{"$isActive"}},
			"updatedAt": time.Now().UTC(),
		}}},
	}
	var product models.Product
	err := r.DB.Collection("products").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	return product, translate(err)
}

// UnitLabels resolves the unit label of each product. Products without a unit
// are absent from the result.
func (r *MongoProductRepository) UnitLabels(ctx context.Context, productIDs []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	labels := make(map[primitive.ObjectID]string, len(productIDs))
	if len(productIDs) == 0 {
		return labels, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": productIDs}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "unitsOfMeasure",
			"localField":   "unitOfMeasureId",
			"foreignField": "_id",
			"as":           "unit",
		}}},
		{{Key: "$unwind", Value: "$unit"}},
		{{Key: "$project", Value: bson.M{
			"name":         "$unit.name",
			"abbreviation": "$unit.abbreviation",
		}}},
	}

	cursor, err := r.DB.Collection("products").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID           primitive.ObjectID `bson:"_id"`
		Name         string             `bson:"name"`
		Abbreviation string             `bson:"abbreviation"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		unit := models.UnitOfMeasure{Name: row.Name, Abbreviation: row.Abbreviation}
		if label := unit.Label(); label != "" {
			labels[row.ID] = label
		}
	}
	return labels, nil
}
