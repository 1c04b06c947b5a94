package apperrors

import (
	"estatehub_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the failure envelope: {"success": false, "error": {...}}.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
}

// GinErrorHandler renders errors for gin. Debug keeps internal messages visible.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "server error", errOrSelf(appErr),
			"code", appErr.Code,
			"domain", appErr.Domain,
			"path", c.Request.URL.Path,
		)
		if !h.Debug && appErr.Code == CodeInternalError {
			appErr = New(CodeInternalError, DomainSystem, "Internal server error", appErr.HTTPCode)
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Success: false, Error: appErr})
}

var defaultHandler = &GinErrorHandler{Debug: false}

// SetDebug toggles debug rendering, typically from config at startup.
func SetDebug(debug bool) {
	defaultHandler.Debug = debug
}

// HandleError renders err with the default handler.
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func errOrSelf(e *AppError) error {
	if e.Err != nil {
		return e.Err
	}
	return e
}
