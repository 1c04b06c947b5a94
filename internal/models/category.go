package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the canonical category shape. Legacy documents stored with
// active/order are mapped onto it by the repository.
//
// SubcategoryCount is maintained by subcategory create/delete and guards
// category deletion.
type Category struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Slug             string             `bson:"slug" json:"slug"`
	Icon             string             `bson:"icon,omitempty" json:"icon,omitempty"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	SortOrder        int                `bson:"sortOrder" json:"sortOrder"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	SubcategoryCount int                `bson:"subcategoryCount" json:"subcategoryCount"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Subcategory struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryID primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Name       string             `bson:"name" json:"name"`
	Slug       string             `bson:"slug" json:"slug"`
	Icon       string             `bson:"icon,omitempty" json:"icon,omitempty"`
	SortOrder  int                `bson:"sortOrder" json:"sortOrder"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
