package dto

import "estatehub_backend/internal/models"

type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone" validate:"omitempty,indian_phone"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	UserType models.UserType `json:"userType" validate:"required,user_type"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      *models.User `json:"user"`
}

type AdminUserQuery struct {
	UserType models.UserType   `form:"userType" validate:"omitempty,oneof=buyer seller agent admin"`
	Status   models.UserStatus `form:"status" validate:"omitempty,oneof=active suspended"`
	Search   string            `form:"search" validate:"max=100"`
	Page     int               `form:"page"`
	PageSize int               `form:"page_size"`
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,oneof=active suspended"`
}
