package repositories

import (
	"context"
	"time"

	"estatehub_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ============================================
// Packages
// ============================================

type PackageRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Package, error)
	FindByID(ctx context.Context, id string) (*models.Package, error)
	Create(ctx context.Context, pkg *models.Package) error
	Update(ctx context.Context, pkg *models.Package) error
	Delete(ctx context.Context, id string) error
}

type PackageRepositoryImpl struct {
	coll *mongo.Collection
}

func NewPackageRepository(db *mongo.Database) PackageRepository {
	return &PackageRepositoryImpl{coll: db.Collection(models.CollectionPackages)}
}

func (r *PackageRepositoryImpl) List(ctx context.Context, activeOnly bool) (list []models.Package, err error) {
	defer func(start time.Time) { observe("find", models.CollectionPackages, start, err) }(time.Now())

	q := bson.M{}
	if activeOnly {
		q["isActive"] = true
	}
	cursor, err := r.coll.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, err
	}
	list = make([]models.Package, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PackageRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Package, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var p models.Package
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PackageRepositoryImpl) Create(ctx context.Context, pkg *models.Package) (err error) {
	defer func(start time.Time) { observe("insert", models.CollectionPackages, start, err) }(time.Now())

	now := time.Now().UTC()
	pkg.ID = primitive.NewObjectID()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now
	_, err = r.coll.InsertOne(ctx, pkg)
	return translate(err)
}

func (r *PackageRepositoryImpl) Update(ctx context.Context, pkg *models.Package) error {
	pkg.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.coll, pkg.ID, pkg)
}

func (r *PackageRepositoryImpl) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

// ============================================
// Banners
// ============================================

type BannerRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	FindByID(ctx context.Context, id string) (*models.Banner, error)
	Create(ctx context.Context, banner *models.Banner) error
	Update(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id string) error
}

type BannerRepositoryImpl struct {
	coll *mongo.Collection
}

func NewBannerRepository(db *mongo.Database) BannerRepository {
	return &BannerRepositoryImpl{coll: db.Collection(models.CollectionBanners)}
}

// List sorts by sortOrder ascending, newest first on ties.
func (r *BannerRepositoryImpl) List(ctx context.Context, activeOnly bool) (list []models.Banner, err error) {
	defer func(start time.Time) { observe("find", models.CollectionBanners, start, err) }(time.Now())

	q := bson.M{}
	if activeOnly {
		q["isActive"] = true
	}
	cursor, err := r.coll.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	list = make([]models.Banner, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BannerRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Banner, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var b models.Banner
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&b); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BannerRepositoryImpl) Create(ctx context.Context, banner *models.Banner) (err error) {
	defer func(start time.Time) { observe("insert", models.CollectionBanners, start, err) }(time.Now())

	now := time.Now().UTC()
	banner.ID = primitive.NewObjectID()
	banner.CreatedAt = now
	banner.UpdatedAt = now
	_, err = r.coll.InsertOne(ctx, banner)
	return translate(err)
}

func (r *BannerRepositoryImpl) Update(ctx context.Context, banner *models.Banner) error {
	banner.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.coll, banner.ID, banner)
}

func (r *BannerRepositoryImpl) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

// ============================================
// shared helpers
// ============================================

func replaceByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc interface{}) (err error) {
	defer func(start time.Time) { observe("replace", coll.Name(), start, err) }(time.Now())

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) (err error) {
	defer func(start time.Time) { observe("delete", coll.Name(), start, err) }(time.Now())

	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
