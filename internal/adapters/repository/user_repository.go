package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/malabro/eshop-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	ListUsers(ctx context.Context, skip, limit int64) ([]models.User, error)
	SetUserActive(ctx context.Context, id primitive.ObjectID, active bool) (models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type MongoUserRepository struct {
	DB *mongo.Database
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &MongoUserRepository{DB: db}
}

func (r *MongoUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	collection := r.DB.Collection("users")
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	count, err := collection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return models.User{}, fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return models.User{}, ErrDuplicate
	}

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := collection.InsertOne(ctx, user); err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	err := r.DB.Collection("users").FindOne(ctx, filter).Decode(&user)
	return user, translate(err)
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.DB.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, translate(err)
}

func (r *MongoUserRepository) ListUsers(ctx context.Context, skip, limit int64) ([]models.User, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.M{"createdAt": -1})
	cursor, err := r.DB.Collection("users").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) SetUserActive(ctx context.Context, id primitive.ObjectID, active bool) (models.User, error) {
	var user models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.DB.Collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}},
		opts,
	).Decode(&user)
	return user, translate(err)
}

func (r *MongoUserRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.DB.Collection("users").CountDocuments(ctx, bson.M{})
}
