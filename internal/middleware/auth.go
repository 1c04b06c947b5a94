package middleware

import (
	"errors"
	"strings"

	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"
	"estatehub_backend/pkg/apperrors"
	"estatehub_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Authenticator validates bearer tokens against the signing key and the revocation list.
type Authenticator struct {
	tokens  *auth.TokenManager
	revoker auth.Revoker
}

func NewAuthenticator(tokens *auth.TokenManager, revoker auth.Revoker) *Authenticator {
	if revoker == nil {
		revoker = auth.NoopRevoker{}
	}
	return &Authenticator{tokens: tokens, revoker: revoker}
}

var errMissingToken = errors.New("authorization header missing or invalid")

// Identify parses and checks the request's token without touching the response.
func (a *Authenticator) Identify(c *gin.Context) (*auth.Claims, error) {
	tokenStr := bearerToken(c)
	if tokenStr == "" {
		return nil, errMissingToken
	}

	claims, err := a.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}

	revoked, err := a.revoker.IsRevoked(c.Request.Context(), claims.ID)
	if err == nil && revoked {
		return nil, auth.ErrTokenRevoked
	}
	return claims, nil
}

// AuthMiddleware rejects requests without a valid, unrevoked token.
// Browsers cannot set headers on a websocket handshake, so a "token" query
// parameter is accepted as well.
func (a *Authenticator) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.Identify(c)
		if errors.Is(err, errMissingToken) {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken.WithError(err))
			return
		}

		c.Set(claimsKey, claims)
		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.UserRoleKey, models.UserType(claims.UserType))
		c.Set(contextkeys.TokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(contextkeys.TokenExpKey, claims.ExpiresAt.Time)
		}
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if header == "" && c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}

// RequireRoles lets the request through only for the listed user types.
func RequireRoles(roles ...models.UserType) gin.HandlerFunc {
	allowed := make(map[models.UserType]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetUserType(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}
		if !allowed[role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// RequirePermission checks the role-permission table instead of a fixed role list.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserType(c)
		if !ok || !auth.HasPermission(role, permission) {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func GetUserType(c *gin.Context) (models.UserType, bool) {
	v, exists := c.Get(contextkeys.UserRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(models.UserType)
	return role, ok && role != ""
}

var errNoClaims = errors.New("no token claims on context")

// GetClaims returns the parsed token set by AuthMiddleware.
func GetClaims(c *gin.Context) (*auth.Claims, error) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, errNoClaims
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil, errNoClaims
	}
	return claims, nil
}
