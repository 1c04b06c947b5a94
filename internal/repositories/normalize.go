package repositories

import (
	"time"

	"estatehub_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// activeFilter matches current documents with isActive=true and legacy
// documents that only carry "active" (missing counts as active).
var activeFilter = bson.M{"$or": bson.A{
	bson.M{"isActive": true},
	bson.M{"isActive": bson.M{"$exists": false}, "active": bson.M{"$ne": false}},
}}

// normalizeCategory maps either stored shape onto models.Category:
//
//	current: {isActive, sortOrder}
//	legacy:  {active, order}
//
// Current fields win when both are present. isActive defaults to true and
// sortOrder to 0.
func normalizeCategory(raw bson.M) models.Category {
	return models.Category{
		ID:               asObjectID(raw["_id"]),
		Name:             asString(raw["name"]),
		Slug:             asString(raw["slug"]),
		Icon:             asString(raw["icon"]),
		Description:      asString(raw["description"]),
		SortOrder:        firstInt(raw, "sortOrder", "order"),
		IsActive:         firstBool(raw, true, "isActive", "active"),
		SubcategoryCount: firstInt(raw, "subcategoryCount"),
		CreatedAt:        asTime(raw["createdAt"]),
		UpdatedAt:        asTime(raw["updatedAt"]),
	}
}

func normalizeSubcategory(raw bson.M) models.Subcategory {
	return models.Subcategory{
		ID:         asObjectID(raw["_id"]),
		CategoryID: asObjectID(raw["categoryId"]),
		Name:       asString(raw["name"]),
		Slug:       asString(raw["slug"]),
		Icon:       asString(raw["icon"]),
		SortOrder:  firstInt(raw, "sortOrder", "order"),
		IsActive:   firstBool(raw, true, "isActive", "active"),
		CreatedAt:  asTime(raw["createdAt"]),
		UpdatedAt:  asTime(raw["updatedAt"]),
	}
}

func firstInt(raw bson.M, keys ...string) int {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			if n, ok := asInt(v); ok {
				return n
			}
		}
	}
	return 0
}

func firstBool(raw bson.M, def bool, keys ...string) bool {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return def
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	default:
		return 0, false
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asObjectID(v interface{}) primitive.ObjectID {
	oid, _ := v.(primitive.ObjectID)
	return oid
}

func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	default:
		return time.Time{}
	}
}
