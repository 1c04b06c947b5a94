package repositories

import (
	"context"
	"sort"
	"time"

	"estatehub_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoryRepository interface {
	// ListActive returns active categories sorted by (sortOrder asc, createdAt desc).
	ListActive(ctx context.Context) ([]models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	// AdjustSubcategoryCount returns ErrNotFound when the category no longer
	// exists, or when a decrement would take the counter below zero.
	AdjustSubcategoryCount(ctx context.Context, id primitive.ObjectID, delta int) error
	// DeleteIfUnreferenced returns ErrHasDependents while subcategories exist.
	DeleteIfUnreferenced(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type CategoryRepositoryImpl struct {
	categories    *mongo.Collection
	subcategories *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &CategoryRepositoryImpl{
		categories:    db.Collection(models.CollectionCategories),
		subcategories: db.Collection(models.CollectionSubcategories),
	}
}

func (r *CategoryRepositoryImpl) ListActive(ctx context.Context) (list []models.Category, err error) {
	defer func(start time.Time) { observe("find_active", models.CollectionCategories, start, err) }(time.Now())
	return r.find(ctx, activeFilter)
}

func (r *CategoryRepositoryImpl) ListAll(ctx context.Context) (list []models.Category, err error) {
	defer func(start time.Time) { observe("find_all", models.CollectionCategories, start, err) }(time.Now())
	return r.find(ctx, bson.M{})
}

// find decodes raw documents so both stored shapes go through normalizeCategory,
// then sorts in memory because legacy documents keep their order under "order".
func (r *CategoryRepositoryImpl) find(ctx context.Context, filter interface{}) ([]models.Category, error) {
	cursor, err := r.categories.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		categories = append(categories, normalizeCategory(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	sortCategories(categories)
	return categories, nil
}

func (r *CategoryRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Category, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *CategoryRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *CategoryRepositoryImpl) findOne(ctx context.Context, filter bson.M) (category *models.Category, err error) {
	defer func(start time.Time) { observe("find_one", models.CollectionCategories, start, err) }(time.Now())

	var raw bson.M
	if err = r.categories.FindOne(ctx, filter).Decode(&raw); err != nil {
		return nil, translate(err)
	}
	c := normalizeCategory(raw)
	return &c, nil
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *models.Category) (err error) {
	defer func(start time.Time) { observe("insert", models.CollectionCategories, start, err) }(time.Now())

	now := time.Now().UTC()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now
	category.UpdatedAt = now
	category.SubcategoryCount = 0

	if _, err = r.categories.InsertOne(ctx, category); err != nil {
		category.ID = primitive.NilObjectID
		return translate(err)
	}
	return nil
}

// Update writes the canonical shape and drops the legacy fields.
func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *models.Category) (err error) {
	defer func(start time.Time) { observe("update", models.CollectionCategories, start, err) }(time.Now())

	category.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":        category.Name,
			"slug":        category.Slug,
			"icon":        category.Icon,
			"description": category.Description,
			"sortOrder":   category.SortOrder,
			"isActive":    category.IsActive,
			"updatedAt":   category.UpdatedAt,
		},
		"$unset": bson.M{"active": "", "order": ""},
	}

	res, err := r.categories.UpdateOne(ctx, bson.M{"_id": category.ID}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CategoryRepositoryImpl) AdjustSubcategoryCount(ctx context.Context, id primitive.ObjectID, delta int) (err error) {
	defer func(start time.Time) { observe("adjust_subcategory_count", models.CollectionCategories, start, err) }(time.Now())

	filter := bson.M{"_id": id}
	if delta < 0 {
		// Legacy documents have no counter; never drive it below zero.
		filter["subcategoryCount"] = bson.M{"$gte": -delta}
	}
	res, err := r.categories.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"subcategoryCount": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIfUnreferenced counts subcategories first (legacy documents have no
// counter), then deletes conditionally on the counter so a subcategory created
// in between blocks the delete.
func (r *CategoryRepositoryImpl) DeleteIfUnreferenced(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe("delete_guarded", models.CollectionCategories, start, err) }(time.Now())

	oid, err := parseID(id)
	if err != nil {
		return err
	}

	n, err := r.subcategories.CountDocuments(ctx, bson.M{"categoryId": oid}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrHasDependents
	}

	res, err := r.categories.DeleteOne(ctx, bson.M{
		"_id":              oid,
		"subcategoryCount": bson.M{"$not": bson.M{"$gt": 0}},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 1 {
		return nil
	}

	exists, err := r.categories.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrHasDependents
	}
	return ErrNotFound
}

func (r *CategoryRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.categories.CountDocuments(ctx, bson.M{})
}

// sortCategories orders by sortOrder ascending, newest first on ties.
func sortCategories(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].CreatedAt.After(categories[j].CreatedAt)
	})
}
