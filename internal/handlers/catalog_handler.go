package handlers

import (
	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/services"
	"estatehub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves promotion packages and homepage banners.
type CatalogHandler struct {
	*BaseHandler
	catalog *services.CatalogService
}

func NewCatalogHandler(base *BaseHandler, catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		catalog:     catalog,
	}
}

func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/packages", h.ListPackages)
	rg.GET("/packages/:id", h.GetPackage)
	rg.GET("/banners", h.ListBanners)

	admin := rg.Group("/admin")
	admin.Use(h.Authenticated(), middleware.RequirePermission(auth.PermCatalogWrite))
	{
		admin.GET("/packages", h.AdminListPackages)
		admin.POST("/packages", h.CreatePackage)
		admin.PUT("/packages/:id", h.UpdatePackage)
		admin.DELETE("/packages/:id", h.DeletePackage)

		admin.GET("/banners", h.AdminListBanners)
		admin.GET("/banners/:id", h.GetBanner)
		admin.POST("/banners", h.CreateBanner)
		admin.PUT("/banners/:id", h.UpdateBanner)
		admin.DELETE("/banners/:id", h.DeleteBanner)
	}
}

// ============================================
// Packages
// ============================================

func (h *CatalogHandler) ListPackages(c *gin.Context) {
	h.listPackages(c, true)
}

func (h *CatalogHandler) AdminListPackages(c *gin.Context) {
	h.listPackages(c, false)
}

func (h *CatalogHandler) listPackages(c *gin.Context, activeOnly bool) {
	list, err := h.catalog.ListPackages(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *CatalogHandler) GetPackage(c *gin.Context) {
	pkg, err := h.catalog.GetPackage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, pkg)
}

func (h *CatalogHandler) CreatePackage(c *gin.Context) {
	var req dto.PackageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	pkg, err := h.catalog.CreatePackage(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, pkg)
}

func (h *CatalogHandler) UpdatePackage(c *gin.Context) {
	var req dto.PackageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	pkg, err := h.catalog.UpdatePackage(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, pkg)
}

func (h *CatalogHandler) DeletePackage(c *gin.Context) {
	if err := h.catalog.DeletePackage(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, "Package deleted")
}

// ============================================
// Banners
// ============================================

// ListBanners filters to active banners unless active=false is passed.
func (h *CatalogHandler) ListBanners(c *gin.Context) {
	list, err := h.catalog.ListBanners(c.Request.Context(), ParseQueryBool(c, "active", true))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *CatalogHandler) AdminListBanners(c *gin.Context) {
	list, err := h.catalog.ListBanners(c.Request.Context(), false)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *CatalogHandler) GetBanner(c *gin.Context) {
	b, err := h.catalog.GetBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, b)
}

func (h *CatalogHandler) CreateBanner(c *gin.Context) {
	var req dto.BannerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	b, err := h.catalog.CreateBanner(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, b)
}

func (h *CatalogHandler) UpdateBanner(c *gin.Context) {
	var req dto.BannerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	b, err := h.catalog.UpdateBanner(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, b)
}

func (h *CatalogHandler) DeleteBanner(c *gin.Context) {
	if err := h.catalog.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, "Banner deleted")
}
