package handlers

import (
	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/services"
	"estatehub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// UserHandler is the admin user directory.
type UserHandler struct {
	*BaseHandler
	users *services.UserService
}

func NewUserHandler(base *BaseHandler, users *services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		users:       users,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/users")
	admin.Use(h.Authenticated(), middleware.RequirePermission(auth.PermUsersManage))
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id/status", h.UpdateStatus)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	var q dto.AdminUserQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	q.Page, q.PageSize = normalizePage(q.Page, q.PageSize)

	users, total, err := h.users.List(c.Request.Context(), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPage(c, users, q.Page, q.PageSize, total)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, user)
}

func (h *UserHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateUserStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.users.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	logger.CtxInfo(c.Request.Context(), "User status changed",
		"target_user_id", user.ID.Hex(),
		"status", user.Status,
	)
	respondOK(c, user)
}
