package handlers

import (
	"net/http"

	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/services"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chat *services.ChatService
}

func NewChatHandler(base *BaseHandler, chat *services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chat:        chat,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	conv := rg.Group("/conversations")
	conv.Use(h.Authenticated(), middleware.RequirePermission(auth.PermChat))
	{
		conv.POST("/find-or-create", h.FindOrCreate)
		conv.GET("", h.List)
		conv.GET("/:id/messages", h.Messages)
		conv.POST("/:id/messages", h.Send)
		conv.POST("/:id/read", h.MarkRead)
	}
}

// FindOrCreate returns 201 when a new conversation was opened and 200 otherwise.
func (h *ChatHandler) FindOrCreate(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	propertyID := c.Query("propertyId")
	if propertyID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("propertyId is required"))
		return
	}

	conv, created, err := h.chat.FindOrCreate(c.Request.Context(), actor, propertyID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond(c, status, conv)
}

func (h *ChatHandler) List(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	list, err := h.chat.List(c.Request.Context(), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *ChatHandler) Messages(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	msgs, total, err := h.chat.Messages(c.Request.Context(), actor, c.Param("id"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPage(c, msgs, page, pageSize, total)
}

func (h *ChatHandler) Send(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chat.Send(c.Request.Context(), actor, c.Param("id"), req.Text)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, msg)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	n, err := h.chat.MarkRead(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"marked": n})
}
