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

type ChatRepository interface {
	// FindOrCreateConversation is an atomic upsert on (property, buyer, seller).
	FindOrCreateConversation(ctx context.Context, property, buyer, seller primitive.ObjectID) (*models.Conversation, bool, error)
	FindConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)

	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID primitive.ObjectID, page, pageSize int) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, conversationID, userID primitive.ObjectID) (int64, error)
	CountUnread(ctx context.Context, conversationID, userID primitive.ObjectID) (int64, error)
}

type ChatRepositoryImpl struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewChatRepository(db *mongo.Database) ChatRepository {
	return &ChatRepositoryImpl{
		conversations: db.Collection(models.CollectionConversations),
		messages:      db.Collection(models.CollectionMessages),
	}
}

func (r *ChatRepositoryImpl) FindOrCreateConversation(ctx context.Context, property, buyer, seller primitive.ObjectID) (conv *models.Conversation, created bool, err error) {
	defer func(start time.Time) { observe("find_or_create", models.CollectionConversations, start, err) }(time.Now())

	key := bson.M{"property": property, "buyer": buyer, "seller": seller}
	newID := primitive.NewObjectID()
	update := bson.M{"$setOnInsert": bson.M{"_id": newID, "createdAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var c models.Conversation
	err = r.conversations.FindOneAndUpdate(ctx, key, update, opts).Decode(&c)
	if mongo.IsDuplicateKeyError(err) {
		// two concurrent upserts; the loser reads the winner's document
		err = r.conversations.FindOne(ctx, key).Decode(&c)
	}
	if err != nil {
		return nil, false, translate(err)
	}
	return &c, c.ID == newID, nil
}

func (r *ChatRepositoryImpl) FindConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var c models.Conversation
	if err := r.conversations.FindOne(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ChatRepositoryImpl) ListConversations(ctx context.Context, userID primitive.ObjectID) (list []models.Conversation, err error) {
	defer func(start time.Time) { observe("find", models.CollectionConversations, start, err) }(time.Now())

	cursor, err := r.conversations.Find(ctx,
		bson.M{"$or": bson.A{bson.M{"buyer": userID}, bson.M{"seller": userID}}},
		options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}, {Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	list = make([]models.Conversation, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateMessage inserts the message and bumps the conversation preview.
// The sender is always counted as having read their own message.
func (r *ChatRepositoryImpl) CreateMessage(ctx context.Context, msg *models.Message) (err error) {
	defer func(start time.Time) { observe("insert", models.CollectionMessages, start, err) }(time.Now())

	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now().UTC()
	if msg.ReadBy == nil {
		msg.ReadBy = []primitive.ObjectID{msg.SenderID}
	}

	if _, err = r.messages.InsertOne(ctx, msg); err != nil {
		return translate(err)
	}

	_, err = r.conversations.UpdateOne(ctx, bson.M{"_id": msg.ConversationID}, bson.M{
		"$set": bson.M{"lastMessage": preview(msg.Text), "lastMessageAt": msg.CreatedAt},
	})
	return err
}

// ListMessages pages oldest-first within the page window of newest messages.
func (r *ChatRepositoryImpl) ListMessages(ctx context.Context, conversationID primitive.ObjectID, page, pageSize int) (list []models.Message, total int64, err error) {
	defer func(start time.Time) { observe("find", models.CollectionMessages, start, err) }(time.Now())

	q := bson.M{"conversationId": conversationID}
	total, err = r.messages.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	skip, limit := skipLimit(page, pageSize)
	cursor, err := r.messages.Find(ctx, q, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	list = make([]models.Message, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}

	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, total, nil
}

func (r *ChatRepositoryImpl) MarkRead(ctx context.Context, conversationID, userID primitive.ObjectID) (n int64, err error) {
	defer func(start time.Time) { observe("mark_read", models.CollectionMessages, start, err) }(time.Now())

	res, err := r.messages.UpdateMany(ctx,
		bson.M{"conversationId": conversationID, "readBy": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"readBy": userID}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *ChatRepositoryImpl) CountUnread(ctx context.Context, conversationID, userID primitive.ObjectID) (int64, error) {
	n, err := r.messages.CountDocuments(ctx, bson.M{"conversationId": conversationID, "readBy": bson.M{"$ne": userID}})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	return n, err
}

func preview(text string) string {
	const previewLen = 120
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen]) + "…"
}
