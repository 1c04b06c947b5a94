package repositories

import (
	"context"
	"sort"
	"strings"
	"time"

	"estatehub_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SubcategoryRepository interface {
	// ListByCategory returns subcategories sorted by (sortOrder asc, name asc).
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID, activeOnly bool) ([]models.Subcategory, error)
	FindByID(ctx context.Context, id string) (*models.Subcategory, error)
	FindBySlug(ctx context.Context, categoryID primitive.ObjectID, slug string) (*models.Subcategory, error)
	Create(ctx context.Context, sub *models.Subcategory) error
	Update(ctx context.Context, sub *models.Subcategory) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
}

type SubcategoryRepositoryImpl struct {
	coll *mongo.Collection
}

func NewSubcategoryRepository(db *mongo.Database) SubcategoryRepository {
	return &SubcategoryRepositoryImpl{coll: db.Collection(models.CollectionSubcategories)}
}

func (r *SubcategoryRepositoryImpl) ListByCategory(ctx context.Context, categoryID primitive.ObjectID, activeOnly bool) (subs []models.Subcategory, err error) {
	defer func(start time.Time) { observe("find", models.CollectionSubcategories, start, err) }(time.Now())

	filter := bson.M{"categoryId": categoryID}
	if activeOnly {
		filter = bson.M{"$and": bson.A{filter, activeFilter}}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs = make([]models.Subcategory, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err = cursor.Decode(&raw); err != nil {
			return nil, err
		}
		subs = append(subs, normalizeSubcategory(raw))
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	sortSubcategories(subs)
	return subs, nil
}

func (r *SubcategoryRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Subcategory, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *SubcategoryRepositoryImpl) FindBySlug(ctx context.Context, categoryID primitive.ObjectID, slug string) (*models.Subcategory, error) {
	return r.findOne(ctx, bson.M{"categoryId": categoryID, "slug": slug})
}

func (r *SubcategoryRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*models.Subcategory, error) {
	var raw bson.M
	if err := r.coll.FindOne(ctx, filter).Decode(&raw); err != nil {
		return nil, translate(err)
	}
	sub := normalizeSubcategory(raw)
	return &sub, nil
}

func (r *SubcategoryRepositoryImpl) Create(ctx context.Context, sub *models.Subcategory) (err error) {
	defer func(start time.Time) { observe("insert", models.CollectionSubcategories, start, err) }(time.Now())

	now := time.Now().UTC()
	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err = r.coll.InsertOne(ctx, sub); err != nil {
		sub.ID = primitive.NilObjectID
		return translate(err)
	}
	return nil
}

func (r *SubcategoryRepositoryImpl) Update(ctx context.Context, sub *models.Subcategory) (err error) {
	defer func(start time.Time) { observe("update", models.CollectionSubcategories, start, err) }(time.Now())

	sub.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": sub.ID}, bson.M{
		"$set": bson.M{
			"name":      sub.Name,
			"slug":      sub.Slug,
			"icon":      sub.Icon,
			"sortOrder": sub.SortOrder,
			"isActive":  sub.IsActive,
			"updatedAt": sub.UpdatedAt,
		},
		"$unset": bson.M{"active": "", "order": ""},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubcategoryRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) (err error) {
	defer func(start time.Time) { observe("delete", models.CollectionSubcategories, start, err) }(time.Now())

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubcategoryRepositoryImpl) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"categoryId": categoryID})
}

func sortSubcategories(subs []models.Subcategory) {
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].SortOrder != subs[j].SortOrder {
			return subs[i].SortOrder < subs[j].SortOrder
		}
		return strings.ToLower(subs[i].Name) < strings.ToLower(subs[j].Name)
	})
}
