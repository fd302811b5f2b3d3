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

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, input models.CategoryInput) (models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

type MongoCategoryRepository struct {
	DB *mongo.Database
}

func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &MongoCategoryRepository{DB: db}
}

func (r *MongoCategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.DB.Collection("categories").Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *MongoCategoryRepository) GetCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var category models.Category
	err := r.DB.Collection("categories").FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	return category, translate(err)
}

func (r *MongoCategoryRepository) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	now := time.Now().UTC()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now
	category.UpdatedAt = now
	if _, err := r.DB.Collection("categories").InsertOne(ctx, category); err != nil {
		return models.Category{}, translate(err)
	}
	return category, nil
}

func (r *MongoCategoryRepository) UpdateCategory(ctx context.Context, id primitive.ObjectID, input models.CategoryInput) (models.Category, error) {
	set := bson.M{
		"name":        input.Name,
		"description": input.Description,
		"updatedAt":   time.Now().UTC(),
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}

	var category models.Category
	err := r.DB.Collection("categories").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&category)
	return category, translate(err)
}

func (r *MongoCategoryRepository) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.DB.Collection("categories").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
