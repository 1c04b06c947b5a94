package repositories

import (
	"context"
	"regexp"
	"strings"
	"time"

	"estatehub_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserFilter struct {
	UserType models.UserType
	Status   models.UserStatus
	Search   string
	Page     int
	PageSize int
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) error
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
}

type UserRepositoryImpl struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &UserRepositoryImpl{coll: db.Collection(models.CollectionUsers)}
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, filter bson.M) (user *models.User, err error) {
	defer func(start time.Time) { observe("find_one", models.CollectionUsers, start, err) }(time.Now())

	var u models.User
	if err = r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Create stores the email lower-cased; ErrDuplicate means the email is taken.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) (err error) {
	defer func(start time.Time) { observe("insert", models.CollectionUsers, start, err) }(time.Now())

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	if _, err = r.coll.InsertOne(ctx, user); err != nil {
		user.ID = primitive.NilObjectID
		return translate(err)
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) (err error) {
	defer func(start time.Time) { observe("update_status", models.CollectionUsers, start, err) }(time.Now())

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, f UserFilter) (users []models.User, total int64, err error) {
	defer func(start time.Time) { observe("find", models.CollectionUsers, start, err) }(time.Now())

	q := bson.M{}
	if f.UserType != "" {
		q["userType"] = f.UserType
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		q["$or"] = bson.A{bson.M{"name": re}, bson.M{"email": re}, bson.M{"phone": re}}
	}

	total, err = r.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	skip, limit := skipLimit(f.Page, f.PageSize)
	cursor, err := r.coll.Find(ctx, q, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	users = make([]models.User, 0)
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
