package repositories

import (
	"context"
	"regexp"
	"time"

	"estatehub_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PropertyFilter struct {
	PropertyType   string
	SubCategory    string
	City           string
	MinPrice       int64
	MaxPrice       int64
	Featured       *bool
	Premium        *bool
	OwnerID        *primitive.ObjectID
	ApprovalStatus models.ApprovalStatus
	Status         models.PropertyStatus
	// PublicOnly restricts to approved and active listings.
	PublicOnly bool
	Page       int
	PageSize   int
}

type PropertyRepository interface {
	FindByID(ctx context.Context, id string) (*models.Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]models.Property, int64, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
	SetApproval(ctx context.Context, id primitive.ObjectID, status models.ApprovalStatus, reason string) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.PropertyStatus) error
	SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error
	ApplyPromotion(ctx context.Context, id primitive.ObjectID, kind models.PackageType, until time.Time) error
	ClearExpiredPromotions(ctx context.Context, now time.Time) (int64, error)
	AddImage(ctx context.Context, id primitive.ObjectID, image models.PropertyImage) error
	ForEachPublic(ctx context.Context, fn func(models.Property) error) error
}

type PropertyRepositoryImpl struct {
	coll *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) PropertyRepository {
	return &PropertyRepositoryImpl{coll: db.Collection(models.CollectionProperties)}
}

func (r *PropertyRepositoryImpl) FindByID(ctx context.Context, id string) (property *models.Property, err error) {
	defer func(start time.Time) { observe("find_one", models.CollectionProperties, start, err) }(time.Now())

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var p models.Property
	if err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func buildPropertyQuery(f PropertyFilter) bson.M {
	q := bson.M{}
	if f.PublicOnly {
		q["status"] = models.PropertyStatusActive
		q["approvalStatus"] = models.ApprovalStatusApproved
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.ApprovalStatus != "" {
		q["approvalStatus"] = f.ApprovalStatus
	}
	if f.PropertyType != "" {
		q["propertyType"] = f.PropertyType
	}
	if f.SubCategory != "" {
		q["subCategory"] = f.SubCategory
	}
	if f.City != "" {
		q["location.city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.City) + "$", Options: "i"}
	}
	if f.MinPrice > 0 || f.MaxPrice > 0 {
		price := bson.M{}
		if f.MinPrice > 0 {
			price["$gte"] = f.MinPrice
		}
		if f.MaxPrice > 0 {
			price["$lte"] = f.MaxPrice
		}
		q["price"] = price
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	if f.Premium != nil {
		q["premium"] = *f.Premium
	}
	if f.OwnerID != nil {
		q["ownerId"] = *f.OwnerID
	}
	return q
}

// List sorts premium first, then featured, then newest.
func (r *PropertyRepositoryImpl) List(ctx context.Context, f PropertyFilter) (list []models.Property, total int64, err error) {
	defer func(start time.Time) { observe("find", models.CollectionProperties, start, err) }(time.Now())

	q := buildPropertyQuery(f)
	total, err = r.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	skip, limit := skipLimit(f.Page, f.PageSize)
	opts := options.Find().
		SetSort(bson.D{{Key: "premium", Value: -1}, {Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	list = make([]models.Property, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PropertyRepositoryImpl) Create(ctx context.Context, p *models.Property) (err error) {
	defer func(start time.Time) { observe("insert", models.CollectionProperties, start, err) }(time.Now())

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Images == nil {
		p.Images = []models.PropertyImage{}
	}
	if _, err = r.coll.InsertOne(ctx, p); err != nil {
		p.ID = primitive.NilObjectID
		return translate(err)
	}
	return nil
}

// Update rewrites the owner-editable fields and the approval state.
func (r *PropertyRepositoryImpl) Update(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = time.Now().UTC()
	return r.set(ctx, "update", p.ID, bson.M{
		"title":           p.Title,
		"description":     p.Description,
		"price":           p.Price,
		"propertyType":    p.PropertyType,
		"subCategory":     p.SubCategory,
		"location":        p.Location,
		"specifications":  p.Specifications,
		"approvalStatus":  p.ApprovalStatus,
		"rejectionReason": p.RejectionReason,
		"updatedAt":       p.UpdatedAt,
	})
}

func (r *PropertyRepositoryImpl) SetApproval(ctx context.Context, id primitive.ObjectID, status models.ApprovalStatus, reason string) error {
	return r.set(ctx, "set_approval", id, bson.M{
		"approvalStatus":  status,
		"rejectionReason": reason,
		"updatedAt":       time.Now().UTC(),
	})
}

func (r *PropertyRepositoryImpl) SetStatus(ctx context.Context, id primitive.ObjectID, status models.PropertyStatus) error {
	return r.set(ctx, "set_status", id, bson.M{"status": status, "updatedAt": time.Now().UTC()})
}

// SetFeatured is the admin toggle. It drops any paid expiry, so an admin
// decision is not undone by the promotion sweep.
func (r *PropertyRepositoryImpl) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) (err error) {
	defer func(start time.Time) { observe("set_featured", models.CollectionProperties, start, err) }(time.Now())

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"featured": featured, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"featuredUntil": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyPromotion sets the package's flag and extends that flag's own expiry.
// A shorter value never shortens an active promotion of the same kind.
func (r *PropertyRepositoryImpl) ApplyPromotion(ctx context.Context, id primitive.ObjectID, kind models.PackageType, until time.Time) (err error) {
	defer func(start time.Time) { observe("apply_promotion", models.CollectionProperties, start, err) }(time.Now())

	flag, untilField := models.PromotionFields(kind)
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{flag: true, "updatedAt": time.Now().UTC()},
		"$max": bson.M{untilField: until.UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearExpiredPromotions expires featured and premium independently, each on
// its own date. Flags without an expiry are left alone.
func (r *PropertyRepositoryImpl) ClearExpiredPromotions(ctx context.Context, now time.Time) (n int64, err error) {
	defer func(start time.Time) { observe("clear_promotions", models.CollectionProperties, start, err) }(time.Now())

	for _, kind := range []models.PackageType{models.PackageTypeFeatured, models.PackageTypePremium} {
		flag, untilField := models.PromotionFields(kind)
		res, err := r.coll.UpdateMany(ctx,
			bson.M{untilField: bson.M{"$lte": now.UTC()}},
			bson.M{
				"$set":   bson.M{flag: false, "updatedAt": now.UTC()},
				"$unset": bson.M{untilField: ""},
			},
		)
		if err != nil {
			return n, err
		}
		n += res.ModifiedCount
	}
	return n, nil
}

func (r *PropertyRepositoryImpl) AddImage(ctx context.Context, id primitive.ObjectID, image models.PropertyImage) (err error) {
	defer func(start time.Time) { observe("add_image", models.CollectionProperties, start, err) }(time.Now())

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"images": image},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ForEachPublic streams every approved, active listing to fn.
func (r *PropertyRepositoryImpl) ForEachPublic(ctx context.Context, fn func(models.Property) error) error {
	cursor, err := r.coll.Find(ctx, buildPropertyQuery(PropertyFilter{PublicOnly: true}))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p models.Property
		if err := cursor.Decode(&p); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (r *PropertyRepositoryImpl) set(ctx context.Context, op string, id primitive.ObjectID, fields bson.M) (err error) {
	defer func(start time.Time) { observe(op, models.CollectionProperties, start, err) }(time.Now())

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
