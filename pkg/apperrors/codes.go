package apperrors

// ErrorCode is the machine-readable part of an error response.
type ErrorCode string

// Generic codes shared by every domain.
const (
	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Payments
	CodeInvalidPaymentAmount    ErrorCode = "INVALID_PAYMENT_AMOUNT"
	CodeInvalidPaymentSignature ErrorCode = "INVALID_PAYMENT_SIGNATURE"

	// Auth
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)

// Domains used as the "domain" field of an error response.
const (
	DomainSystem      = "system"
	DomainValidation  = "validation"
	DomainRequest     = "request"
	DomainAuth        = "auth"
	DomainUser        = "user"
	DomainCategory    = "category"
	DomainSubcategory = "subcategory"
	DomainProperty    = "property"
	DomainChat        = "chat"
	DomainPayment     = "payment"
	DomainPackage     = "package"
	DomainBanner      = "banner"
	DomainStorage     = "storage"
	DomainSearch      = "search"
)
