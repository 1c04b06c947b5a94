package repositories

import (
	"context"
	"errors"
	"time"

	"estatehub_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransitionPatch carries the gateway fields recorded alongside a status change.
type TransitionPatch struct {
	GatewayOrderID   string
	GatewayPaymentID string
	FailureReason    string
}

type TransactionFilter struct {
	UserID   *primitive.ObjectID
	Status   models.TransactionStatus
	Gateway  models.PaymentGateway
	Page     int
	PageSize int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByMerchantID(ctx context.Context, merchantTransactionID string) (*models.Transaction, error)
	SetGatewayOrderID(ctx context.Context, merchantTransactionID, orderID string) error
	// Transition moves a pending transaction to a terminal status. When the
	// transaction is already terminal it is returned unchanged with changed=false.
	Transition(ctx context.Context, merchantTransactionID string, to models.TransactionStatus, patch TransitionPatch) (tx *models.Transaction, changed bool, err error)
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)
	ListPendingOlderThan(ctx context.Context, gateway models.PaymentGateway, cutoff time.Time, limit int64) ([]models.Transaction, error)
	RecordWebhookFailure(ctx context.Context, failure *models.WebhookFailure) error
}

type TransactionRepositoryImpl struct {
	coll     *mongo.Collection
	failures *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) TransactionRepository {
	return &TransactionRepositoryImpl{
		coll:     db.Collection(models.CollectionTransactions),
		failures: db.Collection(models.CollectionWebhookFailures),
	}
}

func (r *TransactionRepositoryImpl) Create(ctx context.Context, tx *models.Transaction) (err error) {
	defer func(start time.Time) { observe("insert", models.CollectionTransactions, start, err) }(time.Now())

	now := time.Now().UTC()
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	if tx.Status == "" {
		tx.Status = models.TransactionStatusPending
	}
	if _, err = r.coll.InsertOne(ctx, tx); err != nil {
		tx.ID = primitive.NilObjectID
		return translate(err)
	}
	return nil
}

func (r *TransactionRepositoryImpl) FindByMerchantID(ctx context.Context, mtid string) (tx *models.Transaction, err error) {
	defer func(start time.Time) { observe("find_one", models.CollectionTransactions, start, err) }(time.Now())

	var t models.Transaction
	if err = r.coll.FindOne(ctx, bson.M{"merchantTransactionId": mtid}).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TransactionRepositoryImpl) SetGatewayOrderID(ctx context.Context, mtid, orderID string) (err error) {
	defer func(start time.Time) { observe("set_order_id", models.CollectionTransactions, start, err) }(time.Now())

	res, err := r.coll.UpdateOne(ctx, bson.M{"merchantTransactionId": mtid}, bson.M{
		"$set": bson.M{"gatewayOrderId": orderID, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Transition is a compare-and-set on status=pending, so concurrent callbacks
// and polls apply at most one terminal status.
func (r *TransactionRepositoryImpl) Transition(ctx context.Context, mtid string, to models.TransactionStatus, patch TransitionPatch) (tx *models.Transaction, changed bool, err error) {
	defer func(start time.Time) { observe("transition", models.CollectionTransactions, start, err) }(time.Now())

	now := time.Now().UTC()
	set := bson.M{"status": to, "updatedAt": now, "completedAt": now}
	if patch.GatewayOrderID != "" {
		set["gatewayOrderId"] = patch.GatewayOrderID
	}
	if patch.GatewayPaymentID != "" {
		set["gatewayPaymentId"] = patch.GatewayPaymentID
	}
	if patch.FailureReason != "" {
		set["failureReason"] = patch.FailureReason
	}

	var t models.Transaction
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"merchantTransactionId": mtid, "status": models.TransactionStatusPending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)

	if err == nil {
		return &t, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	current, err := r.FindByMerchantID(ctx, mtid)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *TransactionRepositoryImpl) List(ctx context.Context, f TransactionFilter) (list []models.Transaction, total int64, err error) {
	defer func(start time.Time) { observe("find", models.CollectionTransactions, start, err) }(time.Now())

	q := bson.M{}
	if f.UserID != nil {
		q["userId"] = *f.UserID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Gateway != "" {
		q["gateway"] = f.Gateway
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
	list = make([]models.Transaction, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *TransactionRepositoryImpl) ListPendingOlderThan(ctx context.Context, gateway models.PaymentGateway, cutoff time.Time, limit int64) (list []models.Transaction, err error) {
	defer func(start time.Time) { observe("find_pending", models.CollectionTransactions, start, err) }(time.Now())

	cursor, err := r.coll.Find(ctx,
		bson.M{"status": models.TransactionStatusPending, "gateway": gateway, "createdAt": bson.M{"$lte": cutoff.UTC()}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	list = make([]models.Transaction, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TransactionRepositoryImpl) RecordWebhookFailure(ctx context.Context, failure *models.WebhookFailure) (err error) {
	defer func(start time.Time) { observe("insert", models.CollectionWebhookFailures, start, err) }(time.Now())

	failure.ID = primitive.NewObjectID()
	failure.CreatedAt = time.Now().UTC()
	_, err = r.failures.InsertOne(ctx, failure)
	return err
}
