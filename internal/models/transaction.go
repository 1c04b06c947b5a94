package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction follows pending -> success | failed. Both outcomes are terminal.
type Transaction struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                primitive.ObjectID `bson:"userId" json:"userId"`
	PackageID             primitive.ObjectID `bson:"packageId" json:"packageId"`
	PropertyID            primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	Amount                int64              `bson:"amount" json:"amount"`
	Gateway               PaymentGateway     `bson:"gateway" json:"gateway"`
	MerchantTransactionID string             `bson:"merchantTransactionId" json:"merchantTransactionId"`
	GatewayOrderID        string             `bson:"gatewayOrderId,omitempty" json:"gatewayOrderId,omitempty"`
	GatewayPaymentID      string             `bson:"gatewayPaymentId,omitempty" json:"gatewayPaymentId,omitempty"`
	Status                TransactionStatus  `bson:"status" json:"status"`
	FailureReason         string             `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
	CompletedAt           *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// WebhookFailure is a dead-letter record for a gateway callback that could not be applied.
type WebhookFailure struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Gateway   PaymentGateway     `bson:"gateway" json:"gateway"`
	Payload   string             `bson:"payload" json:"payload"`
	Reason    string             `bson:"reason" json:"reason"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
