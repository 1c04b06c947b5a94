package handlers

import (
	"net/http"

	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/services"
	"estatehub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

const cacheHeader = "X-Cache"

type CategoryHandler struct {
	*BaseHandler
	categories *services.CategoryService
	lookup     *services.LookupService
}

func NewCategoryHandler(base *BaseHandler, categories *services.CategoryService, lookup *services.LookupService) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler: base,
		categories:  categories,
		lookup:      lookup,
	}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	public := rg.Group("/categories")
	{
		public.GET("", h.List)
		public.GET("/public", h.Public)
		public.GET("/:slug", h.GetBySlug)
		public.GET("/:slug/subcategories", h.ListSubcategoriesBySlug)
		public.GET("/:slug/subcategories/:subSlug", h.Resolve)
	}

	admin := rg.Group("/admin")
	admin.Use(h.Authenticated(), middleware.RequireRoles(models.UserTypeAdmin))
	{
		admin.GET("/categories", h.AdminList)
		admin.POST("/categories", h.Create)
		admin.PUT("/categories/:id", h.Update)
		admin.DELETE("/categories/:id", h.Delete)
		admin.GET("/categories/:id/subcategories", h.AdminListSubcategories)
		admin.POST("/categories/:id/subcategories", h.CreateSubcategory)
		admin.PUT("/subcategories/:id", h.UpdateSubcategory)
		admin.DELETE("/subcategories/:id", h.DeleteSubcategory)
	}
}

// ============================================
// Public
// ============================================

// List serves the cached active list; active=false bypasses the cache and returns everything.
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if !ParseQueryBool(c, "active", true) {
		list, err := h.categories.ListAll(ctx)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		fromCache := false
		c.Header(cacheHeader, "BYPASS")
		c.JSON(http.StatusOK, Response{Success: true, Data: list, FromCache: &fromCache})
		return
	}

	res, err := h.categories.ListActive(ctx)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if res.FromCache {
		c.Header(cacheHeader, "HIT")
	} else {
		c.Header(cacheHeader, "MISS")
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: res.Data, FromCache: &res.FromCache})
}

func (h *CategoryHandler) Public(c *gin.Context) {
	list, err := h.lookup.PublicCategories(c.Request.Context(), ParseQueryInt(c, "limit", 10))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	category, err := h.lookup.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, category)
}

func (h *CategoryHandler) ListSubcategoriesBySlug(c *gin.Context) {
	list, err := h.lookup.ListSubcategories(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *CategoryHandler) Resolve(c *gin.Context) {
	resolved, err := h.lookup.Resolve(c.Request.Context(), c.Param("slug"), c.Param("subSlug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, resolved)
}

// ============================================
// Admin
// ============================================

func (h *CategoryHandler) AdminList(c *gin.Context) {
	list, err := h.categories.ListAll(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, "Category deleted")
}

func (h *CategoryHandler) AdminListSubcategories(c *gin.Context) {
	list, err := h.categories.ListSubcategories(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	var req dto.CreateSubcategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	sub, err := h.categories.CreateSubcategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, sub)
}

func (h *CategoryHandler) UpdateSubcategory(c *gin.Context) {
	var req dto.UpdateSubcategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	sub, err := h.categories.UpdateSubcategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, sub)
}

func (h *CategoryHandler) DeleteSubcategory(c *gin.Context) {
	if err := h.categories.DeleteSubcategory(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, "Subcategory deleted")
}
