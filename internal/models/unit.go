package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnitOfMeasure is how a product is counted at delivery time, e.g. "Kilogram"/"kg".
type UnitOfMeasure struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Abbreviation string             `bson:"abbreviation,omitempty" json:"abbreviation,omitempty"`
}

// Label prefers the abbreviation and falls back to the full name.
func (u UnitOfMeasure) Label() string {
	if u.Abbreviation != "" {
		return u.Abbreviation
	}
	return u.Name
}

type UnitOfMeasureInput struct {
	Name         string `json:"name" validate:"required,min=1,max=50"`
	Abbreviation string `json:"abbreviation" validate:"max=10"`
}
