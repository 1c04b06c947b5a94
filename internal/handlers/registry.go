package handlers

import "github.com/gin-gonic/gin"

// AppHandlers holds every HTTP handler of the API.
type AppHandlers struct {
	HealthHandler   *HealthHandler
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	CategoryHandler *CategoryHandler
	PropertyHandler *PropertyHandler
	ChatHandler     *ChatHandler
	PaymentHandler  *PaymentHandler
	CatalogHandler  *CatalogHandler
}

// RouteRegistrar is implemented by every handler above.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func (h *AppHandlers) All() []RouteRegistrar {
	return []RouteRegistrar{
		h.HealthHandler,
		h.AuthHandler,
		h.UserHandler,
		h.CategoryHandler,
		h.PropertyHandler,
		h.ChatHandler,
		h.PaymentHandler,
		h.CatalogHandler,
	}
}
