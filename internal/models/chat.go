package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is unique per (property, buyer, seller).
type Conversation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Property      primitive.ObjectID `bson:"property" json:"property"`
	Buyer         primitive.ObjectID `bson:"buyer" json:"buyer"`
	Seller        primitive.ObjectID `bson:"seller" json:"seller"`
	LastMessage   string             `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageAt *time.Time         `bson:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// HasParticipant reports whether userID is the buyer or the seller.
func (c *Conversation) HasParticipant(userID primitive.ObjectID) bool {
	return c.Buyer == userID || c.Seller == userID
}

// Counterpart returns the other participant.
func (c *Conversation) Counterpart(userID primitive.ObjectID) primitive.ObjectID {
	if c.Buyer == userID {
		return c.Seller
	}
	return c.Buyer
}

type Message struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID   `bson:"conversationId" json:"conversationId"`
	SenderID       primitive.ObjectID   `bson:"senderId" json:"senderId"`
	Text           string               `bson:"text" json:"text"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	ReadBy         []primitive.ObjectID `bson:"readBy" json:"readBy"`
}
