package services

import (
	"context"
	"strings"

	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const EventMessage = "message"

// Notifier pushes events to connected users. The websocket hub implements it.
type Notifier interface {
	Notify(userID string, event interface{})
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, interface{}) {}

type ChatService struct {
	chats      repositories.ChatRepository
	properties repositories.PropertyRepository
	notifier   Notifier
}

func NewChatService(chats repositories.ChatRepository, properties repositories.PropertyRepository, notifier Notifier) *ChatService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &ChatService{chats: chats, properties: properties, notifier: notifier}
}

// FindOrCreate opens the caller's conversation with the owner of propertyID.
func (s *ChatService) FindOrCreate(ctx context.Context, actor Actor, propertyID string) (*models.Conversation, bool, error) {
	p, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, false, mapRepoErr(err, "get property", apperrors.ErrPropertyNotFound, nil)
	}
	if p.OwnerID == actor.ID {
		return nil, false, apperrors.ErrCannotChatWithSelf
	}
	if !p.IsPublic() && !actor.IsAdmin() {
		return nil, false, apperrors.ErrPropertyNotFound
	}

	conv, created, err := s.chats.FindOrCreateConversation(ctx, p.ID, actor.ID, p.OwnerID)
	if err != nil {
		return nil, false, mapRepoErr(err, "find or create conversation", nil, nil)
	}
	if created {
		logger.CtxInfo(ctx, "conversation started", "conversation_id", conv.ID.Hex(), "property_id", p.ID.Hex())
	}
	return conv, created, nil
}

func (s *ChatService) List(ctx context.Context, actor Actor) ([]dto.ConversationView, error) {
	list, err := s.chats.ListConversations(ctx, actor.ID)
	if err != nil {
		return nil, mapRepoErr(err, "list conversations", nil, nil)
	}

	views := make([]dto.ConversationView, 0, len(list))
	for _, c := range list {
		unread, err := s.chats.CountUnread(ctx, c.ID, actor.ID)
		if err != nil {
			return nil, mapRepoErr(err, "count unread", nil, nil)
		}
		views = append(views, dto.ConversationView{Conversation: c, Unread: unread})
	}
	return views, nil
}

func (s *ChatService) Messages(ctx context.Context, actor Actor, conversationID string, page, pageSize int) ([]models.Message, int64, error) {
	conv, err := s.conversation(ctx, actor, conversationID)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.chats.ListMessages(ctx, conv.ID, page, pageSize)
	return list, total, mapRepoErr(err, "list messages", nil, nil)
}

// Send stores the message and pushes it to both participants.
func (s *ChatService) Send(ctx context.Context, actor Actor, conversationID, text string) (*models.Message, error) {
	conv, err := s.conversation(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ValidationError(map[string]string{"text": "must not be blank"})
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       actor.ID,
		Text:           text,
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, mapRepoErr(err, "create message", nil, nil)
	}

	event := dto.ChatEvent{Type: EventMessage, Data: msg}
	for _, uid := range []primitive.ObjectID{conv.Buyer, conv.Seller} {
		s.notifier.Notify(uid.Hex(), event)
	}
	return msg, nil
}

func (s *ChatService) MarkRead(ctx context.Context, actor Actor, conversationID string) (int64, error) {
	conv, err := s.conversation(ctx, actor, conversationID)
	if err != nil {
		return 0, err
	}
	n, err := s.chats.MarkRead(ctx, conv.ID, actor.ID)
	return n, mapRepoErr(err, "mark read", nil, nil)
}

func (s *ChatService) conversation(ctx context.Context, actor Actor, id string) (*models.Conversation, error) {
	conv, err := s.chats.FindConversationByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get conversation", apperrors.ErrConversationNotFound, nil)
	}
	if !conv.HasParticipant(actor.ID) {
		return nil, apperrors.ErrConversationAccessDenied
	}
	return conv, nil
}
