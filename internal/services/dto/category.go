package dto

import "estatehub_backend/internal/models"

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Slug        string `json:"slug" validate:"required,slug,max=80"`
	Icon        string `json:"icon" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=500"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
	IsActive    *bool  `json:"isActive"`
}

// UpdateCategoryRequest only touches the fields that are present.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=80"`
	Slug        *string `json:"slug" validate:"omitempty,slug,max=80"`
	Icon        *string `json:"icon" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	SortOrder   *int    `json:"sortOrder" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"isActive"`
}

type CreateSubcategoryRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=80"`
	Slug      string `json:"slug" validate:"required,slug,max=80"`
	Icon      string `json:"icon" validate:"omitempty,max=200"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
	IsActive  *bool  `json:"isActive"`
}

type UpdateSubcategoryRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=80"`
	Slug      *string `json:"slug" validate:"omitempty,slug,max=80"`
	Icon      *string `json:"icon" validate:"omitempty,max=200"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,gte=0"`
	IsActive  *bool   `json:"isActive"`
}

// ListingFilter is what a category/subcategory path resolves to.
type ListingFilter struct {
	PropertyType string `json:"propertyType"`
	SubCategory  string `json:"subCategory,omitempty"`
}

type ResolvedCategory struct {
	Category    models.Category     `json:"category"`
	Subcategory *models.Subcategory `json:"subcategory,omitempty"`
	Filter      ListingFilter       `json:"filter"`
}
