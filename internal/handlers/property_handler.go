package handlers

import (
	"io"
	"net/http"

	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/config"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/services"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// multipart overhead allowed on top of the image itself
const formOverhead = 1 << 20

type PropertyHandler struct {
	*BaseHandler
	properties *services.PropertyService
	upload     config.UploadPolicy
}

func NewPropertyHandler(base *BaseHandler, properties *services.PropertyService, upload config.UploadPolicy) *PropertyHandler {
	return &PropertyHandler{
		BaseHandler: base,
		properties:  properties,
		upload:      upload,
	}
}

func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	public := rg.Group("/properties")
	{
		public.GET("", h.List)
		public.GET("/search", h.Search)
		public.GET("/:id", h.Get)
	}

	owner := rg.Group("/properties")
	owner.Use(h.Authenticated(), middleware.RequirePermission(auth.PermPropertyCreate))
	{
		owner.POST("", h.Create)
		owner.PUT("/:id", h.Update)
		owner.DELETE("/:id", h.Delete)
		owner.POST("/:id/images", h.UploadImage)
	}

	rg.GET("/my/properties", h.Authenticated(), h.ListMine)

	admin := rg.Group("/admin/properties")
	admin.Use(h.Authenticated(), middleware.RequirePermission(auth.PermPropertyModerate))
	{
		admin.GET("", h.AdminList)
		admin.PUT("/:id/approve", h.Approve)
		admin.PUT("/:id/reject", h.Reject)
		admin.PUT("/:id/feature", h.Feature)
	}
}

// ============================================
// Public
// ============================================

func (h *PropertyHandler) List(c *gin.Context) {
	var q dto.PropertyListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	q.Page, q.PageSize = normalizePage(q.Page, q.PageSize)

	list, total, err := h.properties.ListPublic(c.Request.Context(), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPage(c, list, q.Page, q.PageSize, total)
}

func (h *PropertyHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	q.Page, q.PageSize = normalizePage(q.Page, q.PageSize)

	res, err := h.properties.Search(c.Request.Context(), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPage(c, res.Hits, q.Page, q.PageSize, res.Total)
}

// Get shows pending or retired listings only to their owner and admins.
func (h *PropertyHandler) Get(c *gin.Context) {
	p, err := h.properties.Get(c.Request.Context(), h.OptionalActor(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, p)
}

// ============================================
// Owner
// ============================================

func (h *PropertyHandler) Create(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.CreatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	p, err := h.properties.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *PropertyHandler) Update(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.UpdatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	p, err := h.properties.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	if err := h.properties.Retire(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, "Property removed")
}

// UploadImage takes a multipart "image" field.
func (h *PropertyHandler) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.upload.MaxSize+formOverhead)
	fh, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if apperrors.As(err, &maxErr) {
			apperrors.HandleError(c, apperrors.ErrFileTooLarge)
			return
		}
		apperrors.HandleError(c, apperrors.NewBadRequestError("Multipart field \"image\" is required"))
		return
	}
	if fh.Size > h.upload.MaxSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !h.upload.Allows(contentType) {
		apperrors.HandleError(c, apperrors.ErrInvalidFileType.WithDetails(map[string]interface{}{
			"allowed": h.upload.AllowedTypes,
		}))
		return
	}

	f, err := fh.Open()
	if err != nil {
		logger.CtxWithError(ctx, "Failed to open uploaded file", err)
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.upload.MaxSize+1))
	if err != nil {
		logger.CtxWithError(ctx, "Failed to read uploaded file", err)
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	if int64(len(data)) > h.upload.MaxSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return
	}

	img, err := h.properties.AddImage(ctx, actor, c.Param("id"), fh.Filename, contentType, data)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, img)
}

func (h *PropertyHandler) ListMine(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	list, total, err := h.properties.ListMine(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPage(c, list, page, pageSize, total)
}

// ============================================
// Moderation
// ============================================

func (h *PropertyHandler) AdminList(c *gin.Context) {
	var q dto.AdminPropertyQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	q.Page, q.PageSize = normalizePage(q.Page, q.PageSize)

	list, total, err := h.properties.AdminList(c.Request.Context(), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPage(c, list, q.Page, q.PageSize, total)
}

func (h *PropertyHandler) Approve(c *gin.Context) {
	p, err := h.properties.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	logger.CtxInfo(c.Request.Context(), "Property approved", "property_id", p.ID.Hex())
	respondOK(c, p)
}

func (h *PropertyHandler) Reject(c *gin.Context) {
	var req dto.RejectPropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	p, err := h.properties.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	logger.CtxInfo(c.Request.Context(), "Property rejected", "property_id", p.ID.Hex())
	respondOK(c, p)
}

func (h *PropertyHandler) Feature(c *gin.Context) {
	var req dto.FeaturePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	p, err := h.properties.SetFeatured(c.Request.Context(), c.Param("id"), req.Featured)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, p)
}
