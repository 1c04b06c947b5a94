package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Package is a paid promotion. Price is in paise.
type Package struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Type         PackageType        `bson:"type" json:"type"`
	Price        int64              `bson:"price" json:"price"`
	DurationDays int                `bson:"durationDays" json:"durationDays"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
