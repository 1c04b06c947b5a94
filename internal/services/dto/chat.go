package dto

import "estatehub_backend/internal/models"

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

type ConversationView struct {
	models.Conversation
	Unread int64 `json:"unread"`
}

// ChatEvent is pushed to participants over the websocket.
type ChatEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
