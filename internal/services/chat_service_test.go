package services

import (
	"context"
	"testing"

	"estatehub_backend/internal/models"
	"estatehub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func publicProperty(owner primitive.ObjectID) *models.Property {
	return &models.Property{
		ID:             primitive.NewObjectID(),
		Title:          "2BHK near the lake",
		Price:          4500000,
		OwnerID:        owner,
		Status:         models.PropertyStatusActive,
		ApprovalStatus: models.ApprovalStatusApproved,
	}
}

func TestChatService_FindOrCreateIsIdempotent(t *testing.T) {
	seller := primitive.NewObjectID()
	buyer := Actor{ID: primitive.NewObjectID(), Type: models.UserTypeBuyer}
	prop := publicProperty(seller)
	svc := NewChatService(&memChats{}, newMemProperties(prop), nil)
	ctx := context.Background()

	first, created, err := svc.FindOrCreate(ctx, buyer, prop.ID.Hex())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, seller, first.Seller)

	second, created, err := svc.FindOrCreate(ctx, buyer, prop.ID.Hex())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestChatService_OwnerCannotChatWithSelf(t *testing.T) {
	seller := Actor{ID: primitive.NewObjectID(), Type: models.UserTypeSeller}
	prop := publicProperty(seller.ID)
	svc := NewChatService(&memChats{}, newMemProperties(prop), nil)

	_, _, err := svc.FindOrCreate(context.Background(), seller, prop.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrCannotChatWithSelf)
}

func TestChatService_PendingListingHidden(t *testing.T) {
	prop := publicProperty(primitive.NewObjectID())
	prop.ApprovalStatus = models.ApprovalStatusPending
	svc := NewChatService(&memChats{}, newMemProperties(prop), nil)
	buyer := Actor{ID: primitive.NewObjectID(), Type: models.UserTypeBuyer}

	_, _, err := svc.FindOrCreate(context.Background(), buyer, prop.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrPropertyNotFound)
}

func TestChatService_SendNotifiesBothParticipants(t *testing.T) {
	seller := primitive.NewObjectID()
	buyer := Actor{ID: primitive.NewObjectID(), Type: models.UserTypeBuyer}
	prop := publicProperty(seller)
	notifier := &recordingNotifier{}
	svc := NewChatService(&memChats{}, newMemProperties(prop), notifier)
	ctx := context.Background()

	conv, _, err := svc.FindOrCreate(ctx, buyer, prop.ID.Hex())
	require.NoError(t, err)

	msg, err := svc.Send(ctx, buyer, conv.ID.Hex(), "  is it still available?  ")
	require.NoError(t, err)
	assert.Equal(t, "is it still available?", msg.Text)
	assert.ElementsMatch(t, []string{buyer.ID.Hex(), seller.Hex()}, notifier.pushed)

	_, err = svc.Send(ctx, buyer, conv.ID.Hex(), "   ")
	assert.Error(t, err)
}

func TestChatService_OutsidersAreDenied(t *testing.T) {
	prop := publicProperty(primitive.NewObjectID())
	svc := NewChatService(&memChats{}, newMemProperties(prop), nil)
	ctx := context.Background()
	buyer := Actor{ID: primitive.NewObjectID(), Type: models.UserTypeBuyer}
	outsider := Actor{ID: primitive.NewObjectID(), Type: models.UserTypeBuyer}

	conv, _, err := svc.FindOrCreate(ctx, buyer, prop.ID.Hex())
	require.NoError(t, err)

	_, _, err = svc.Messages(ctx, outsider, conv.ID.Hex(), 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrConversationAccessDenied)

	_, err = svc.Send(ctx, outsider, conv.ID.Hex(), "hi")
	assert.ErrorIs(t, err, apperrors.ErrConversationAccessDenied)

	_, _, err = svc.Messages(ctx, buyer, primitive.NewObjectID().Hex(), 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
}
