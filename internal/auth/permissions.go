package auth

import "estatehub_backend/internal/models"

const (
	PermPropertyCreate   = "property:create"
	PermPropertyModerate = "property:moderate"
	PermCatalogWrite     = "catalog:write"
	PermUsersManage      = "users:manage"
	PermPaymentsRead     = "payments:read"
	PermChat             = "chat"
	PermPromote          = "property:promote"
)

// Permissions per user type.
var Permissions = map[models.UserType][]string{
	models.UserTypeAdmin: {
		PermPropertyCreate,
		PermPropertyModerate,
		PermCatalogWrite,
		PermUsersManage,
		PermPaymentsRead,
		PermChat,
		PermPromote,
	},
	models.UserTypeSeller: {PermPropertyCreate, PermPromote, PermChat},
	models.UserTypeAgent:  {PermPropertyCreate, PermPromote, PermChat},
	models.UserTypeBuyer:  {PermChat},
}

func HasPermission(userType models.UserType, permission string) bool {
	for _, p := range Permissions[userType] {
		if p == permission {
			return true
		}
	}
	return false
}

func IsAdmin(claims *Claims) bool {
	return claims != nil && models.UserType(claims.UserType) == models.UserTypeAdmin
}
