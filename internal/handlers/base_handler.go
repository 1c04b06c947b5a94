package handlers

import (
	"strconv"

	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/services"
	"estatehub_backend/internal/validator"
	"estatehub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ============================================
// Base handler
// ============================================

type BaseHandler struct {
	validator *validator.Validator
	auth      *middleware.Authenticator
}

func NewBaseHandler(v *validator.Validator, a *middleware.Authenticator) *BaseHandler {
	return &BaseHandler{
		validator: v,
		auth:      a,
	}
}

// Authenticated is the AuthMiddleware every protected group uses.
func (h *BaseHandler) Authenticated() gin.HandlerFunc {
	return h.auth.AuthMiddleware()
}

// ============================================
// Binding and validation
// ============================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// ============================================
// Errors
// ============================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		if appErr.HTTPCode < 500 {
			logger.CtxWarn(ctx, "Service error",
				"error", appErr.Message,
				"details", appErr.Details,
				"path", c.Request.URL.Path,
			)
		}
		apperrors.HandleError(c, appErr)
		return
	}
	apperrors.HandleError(c, apperrors.InternalError(err))
}

// ============================================
// Caller
// ============================================

// GetActor returns the authenticated caller. It writes 401 and reports false
// when AuthMiddleware did not run or the user id is malformed.
func (h *BaseHandler) GetActor(c *gin.Context) (services.Actor, bool) {
	ctx := c.Request.Context()

	userID := middleware.GetUserID(c)
	oid, err := primitive.ObjectIDFromHex(userID)
	if userID == "" || err != nil {
		logger.CtxWarn(ctx, "Unauthorized access: no valid user id in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return services.Anonymous, false
	}

	role, _ := middleware.GetUserType(c)
	return services.Actor{ID: oid, Type: role}, true
}

// OptionalActor is GetActor for public routes: a missing or bad token is anonymous.
func (h *BaseHandler) OptionalActor(c *gin.Context) services.Actor {
	claims, err := h.auth.Identify(c)
	if err != nil {
		return services.Anonymous
	}
	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return services.Anonymous
	}
	return services.Actor{ID: oid, Type: models.UserType(claims.UserType)}
}

// ============================================
// Parsing
// ============================================

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func ParseQueryBool(c *gin.Context, key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func ParsePagination(c *gin.Context) (page int, pageSize int) {
	page = ParseQueryInt(c, "page", defaultPage)
	return normalizePage(page, ParseQueryInt(c, "page_size", defaultPageSize))
}

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
