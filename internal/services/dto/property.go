package dto

import "estatehub_backend/internal/models"

type LocationInput struct {
	Address string `json:"address" validate:"omitempty,max=300"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	Pincode string `json:"pincode" validate:"omitempty,numeric,len=6"`
}

type SpecificationsInput struct {
	Bedrooms   int     `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms  int     `json:"bathrooms" validate:"gte=0,lte=50"`
	AreaSqft   float64 `json:"areaSqft" validate:"gte=0"`
	Furnishing string  `json:"furnishing" validate:"omitempty,oneof=furnished semi-furnished unfurnished"`
}

type CreatePropertyRequest struct {
	Title          string              `json:"title" validate:"required,min=5,max=150"`
	Description    string              `json:"description" validate:"omitempty,max=5000"`
	Price          int64               `json:"price" validate:"required,gt=0"`
	PropertyType   string              `json:"propertyType" validate:"required,slug"`
	SubCategory    string              `json:"subCategory" validate:"omitempty,slug"`
	Location       LocationInput       `json:"location"`
	Specifications SpecificationsInput `json:"specifications"`
}

type UpdatePropertyRequest struct {
	Title          *string              `json:"title" validate:"omitempty,min=5,max=150"`
	Description    *string              `json:"description" validate:"omitempty,max=5000"`
	Price          *int64               `json:"price" validate:"omitempty,gt=0"`
	PropertyType   *string              `json:"propertyType" validate:"omitempty,slug"`
	SubCategory    *string              `json:"subCategory" validate:"omitempty,slug"`
	Location       *LocationInput       `json:"location"`
	Specifications *SpecificationsInput `json:"specifications"`
}

type PropertyListQuery struct {
	Category    string `form:"category" validate:"omitempty,slug"`
	Subcategory string `form:"subcategory" validate:"omitempty,slug"`
	City        string `form:"city" validate:"omitempty,max=100"`
	MinPrice    int64  `form:"minPrice" validate:"gte=0"`
	MaxPrice    int64  `form:"maxPrice" validate:"gte=0"`
	Featured    *bool  `form:"featured"`
	Premium     *bool  `form:"premium"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

type AdminPropertyQuery struct {
	ApprovalStatus models.ApprovalStatus `form:"approvalStatus" validate:"omitempty,approval_status"`
	Page           int                   `form:"page"`
	PageSize       int                   `form:"page_size"`
}

type RejectPropertyRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type FeaturePropertyRequest struct {
	Featured bool `json:"featured"`
}

type SearchQuery struct {
	Q           string `form:"q" validate:"max=200"`
	Category    string `form:"category" validate:"omitempty,slug"`
	Subcategory string `form:"subcategory" validate:"omitempty,slug"`
	City        string `form:"city" validate:"omitempty,max=100"`
	MinPrice    int64  `form:"minPrice" validate:"gte=0"`
	MaxPrice    int64  `form:"maxPrice" validate:"gte=0"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}
