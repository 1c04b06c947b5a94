package database

import (
	"context"
	"fmt"

	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

func indexSpecs() []indexSpec {
	return []indexSpec{
		{models.CollectionCategories, mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_slug"),
		}},
		{models.CollectionSubcategories, mongo.IndexModel{
			Keys:    bson.D{{Key: "categoryId", Value: 1}, {Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_category_slug"),
		}},
		{models.CollectionUsers, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		}},
		{models.CollectionConversations, mongo.IndexModel{
			Keys:    bson.D{{Key: "property", Value: 1}, {Key: "buyer", Value: 1}, {Key: "seller", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_property_buyer_seller"),
		}},
		{models.CollectionConversations, mongo.IndexModel{
			Keys:    bson.D{{Key: "buyer", Value: 1}, {Key: "lastMessageAt", Value: -1}},
			Options: options.Index().SetName("buyer_recent"),
		}},
		{models.CollectionConversations, mongo.IndexModel{
			Keys:    bson.D{{Key: "seller", Value: 1}, {Key: "lastMessageAt", Value: -1}},
			Options: options.Index().SetName("seller_recent"),
		}},
		{models.CollectionMessages, mongo.IndexModel{
			Keys:    bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("conversation_created"),
		}},
		{models.CollectionTransactions, mongo.IndexModel{
			Keys:    bson.D{{Key: "merchantTransactionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_merchant_transaction_id"),
		}},
		{models.CollectionTransactions, mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "gateway", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("status_gateway_created"),
		}},
		{models.CollectionProperties, mongo.IndexModel{
			Keys:    bson.D{{Key: "approvalStatus", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("approval_status_created"),
		}},
		{models.CollectionProperties, mongo.IndexModel{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("owner_created"),
		}},
		{models.CollectionProperties, mongo.IndexModel{
			Keys:    bson.D{{Key: "featuredUntil", Value: 1}},
			Options: options.Index().SetName("featured_until").SetSparse(true),
		}},
		{models.CollectionProperties, mongo.IndexModel{
			Keys:    bson.D{{Key: "premiumUntil", Value: 1}},
			Options: options.Index().SetName("premium_until").SetSparse(true),
		}},
	}
}

// EnsureIndexes creates every index the repositories rely on. The unique
// indexes are the only guard for slug, email and merchant transaction id
// uniqueness. Existing indexes with the same definition are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, spec := range indexSpecs() {
		name, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", spec.collection, err)
		}
		logger.Debug("index ensured", "collection", spec.collection, "index", name)
	}
	logger.Info("MongoDB indexes ensured", "count", len(indexSpecs()))
	return nil
}
