package repository

import (
	"context"

	"github.com/malabro/eshop-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UnitRepository interface {
	ListUnits(ctx context.Context) ([]models.UnitOfMeasure, error)
	GetUnit(ctx context.Context, id primitive.ObjectID) (models.UnitOfMeasure, error)
	CreateUnit(ctx context.Context, unit models.UnitOfMeasure) (models.UnitOfMeasure, error)
	UpdateUnit(ctx context.Context, id primitive.ObjectID, input models.UnitOfMeasureInput) (models.UnitOfMeasure, error)
	DeleteUnit(ctx context.Context, id primitive.ObjectID) error
}

type MongoUnitRepository struct {
	DB *mongo.Database
}

func NewUnitRepository(db *mongo.Database) UnitRepository {
	return &MongoUnitRepository{DB: db}
}

func (r *MongoUnitRepository) ListUnits(ctx context.Context) ([]models.UnitOfMeasure, error) {
	cursor, err := r.DB.Collection("unitsOfMeasure").Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	units := []models.UnitOfMeasure{}
	if err := cursor.All(ctx, &units); err != nil {
		return nil, err
	}
	return units, nil
}

func (r *MongoUnitRepository) GetUnit(ctx context.Context, id primitive.ObjectID) (models.UnitOfMeasure, error) {
	var unit models.UnitOfMeasure
	err := r.DB.Collection("unitsOfMeasure").FindOne(ctx, bson.M{"_id": id}).Decode(&unit)
	return unit, translate(err)
}

func (r *MongoUnitRepository) CreateUnit(ctx context.Context, unit models.UnitOfMeasure) (models.UnitOfMeasure, error) {
	unit.ID = primitive.NewObjectID()
	if _, err := r.DB.Collection("unitsOfMeasure").InsertOne(ctx, unit); err != nil {
		return models.UnitOfMeasure{}, translate(err)
	}
	return unit, nil
}

func (r *MongoUnitRepository) UpdateUnit(ctx context.Context, id primitive.ObjectID, input models.UnitOfMeasureInput) (models.UnitOfMeasure, error) {
	var unit models.UnitOfMeasure
	err := r.DB.Collection("unitsOfMeasure").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": input.Name, "abbreviation": input.Abbreviation}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&unit)
	return unit, translate(err)
}

func (r *MongoUnitRepository) DeleteUnit(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.DB.Collection("unitsOfMeasure").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
