package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	FullName       string             `bson:"fullName" json:"full_name"`
	HashedPassword string             `bson:"hashedPassword" json:"-"`
	IsActive       bool               `bson:"isActive" json:"is_active"`
	IsAdmin        bool               `bson:"isAdmin" json:"is_admin"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updated_at"`
}

// Role maps the admin flag onto the role carried in access tokens.
func (u User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "customer"
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	FullName string `json:"full_name" binding:"required" validate:"required,min=2,max=120"`
	Password string `json:"password" binding:"required" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type SetUserActiveInput struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
