package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories
// =========================================================================

// ErrNotFound converts a repository miss into a 404 for the given domain.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists converts a duplicate-key violation into a 409.
func ErrAlreadyExists(err error, domain, message string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, message, http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Sentinels
// =========================================================================

var ErrInsufficientPermissions = New(
	CodeForbidden,
	DomainAuth,
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrTooManyRequests = New(
	CodeTooManyRequests,
	DomainRequest,
	"Too many requests, slow down",
	http.StatusTooManyRequests,
)

// --- Categories ---

var ErrCategoryNotFound = New(
	CodeNotFound,
	DomainCategory,
	"Category not found",
	http.StatusNotFound,
)

var ErrDuplicateCategorySlug = New(
	CodeAlreadyExists,
	DomainCategory,
	"A category with this slug already exists",
	http.StatusConflict,
)

// ErrCategoryHasSubcategories blocks deleting a category that still owns subcategories.
var ErrCategoryHasSubcategories = New(
	CodeConflict,
	DomainCategory,
	"Category has subcategories; delete them first",
	http.StatusConflict,
)

var ErrSubcategoryNotFound = New(
	CodeNotFound,
	DomainSubcategory,
	"Subcategory not found",
	http.StatusNotFound,
)

var ErrDuplicateSubcategorySlug = New(
	CodeAlreadyExists,
	DomainSubcategory,
	"A subcategory with this slug already exists in the category",
	http.StatusConflict,
)

// --- Properties ---

var ErrPropertyNotFound = New(
	CodeNotFound,
	DomainProperty,
	"Property not found",
	http.StatusNotFound,
)

var ErrNotPropertyOwner = New(
	CodeForbidden,
	DomainProperty,
	"You do not own this property",
	http.StatusForbidden,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	DomainValidation,
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	DomainValidation,
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// --- Users & auth ---

var ErrUserNotFound = New(
	CodeNotFound,
	DomainUser,
	"User not found",
	http.StatusNotFound,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	DomainAuth,
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	DomainAuth,
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	DomainAuth,
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserSuspended = New(
	CodeForbidden,
	DomainAuth,
	"Your account has been suspended",
	http.StatusForbidden,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	DomainUser,
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// --- Chat ---

var ErrConversationNotFound = New(
	CodeNotFound,
	DomainChat,
	"Conversation not found",
	http.StatusNotFound,
)

var ErrConversationAccessDenied = New(
	CodeForbidden,
	DomainChat,
	"Access to conversation denied",
	http.StatusForbidden,
)

var ErrCannotChatWithSelf = New(
	CodeInvalidOperation,
	DomainChat,
	"You cannot start a conversation about your own property",
	http.StatusBadRequest,
)

// --- Packages & banners ---

var ErrPackageNotFound = New(
	CodeNotFound,
	DomainPackage,
	"Package not found",
	http.StatusNotFound,
)

var ErrBannerNotFound = New(
	CodeNotFound,
	DomainBanner,
	"Banner not found",
	http.StatusNotFound,
)

// --- Payments ---

var ErrTransactionNotFound = New(
	CodeNotFound,
	DomainPayment,
	"Transaction not found",
	http.StatusNotFound,
)

var ErrInvalidPaymentAmount = New(
	CodeInvalidPaymentAmount,
	DomainPayment,
	"Amount does not match the package price",
	http.StatusBadRequest,
)

var ErrInvalidPaymentSignature = New(
	CodeInvalidPaymentSignature,
	DomainPayment,
	"Payment signature verification failed",
	http.StatusBadRequest,
)

var ErrGatewayNotConfigured = New(
	CodeExternalServiceError,
	DomainPayment,
	"Payment gateway is not configured",
	http.StatusServiceUnavailable,
)
