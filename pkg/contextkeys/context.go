package contextkeys

// Keys set on *gin.Context by the auth middleware and read by handlers.
const (
	UserIDKey    = "userID"
	UserRoleKey  = "role"
	TokenIDKey   = "tokenID"
	TokenExpKey  = "tokenExp"
	RequestIDKey = "requestID"
)
