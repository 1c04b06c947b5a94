package dto

import "estatehub_backend/internal/models"

type PackageRequest struct {
	Name         string             `json:"name" validate:"required,min=2,max=100"`
	Type         models.PackageType `json:"type" validate:"required,oneof=featured premium"`
	Price        int64              `json:"price" validate:"required,gt=0"`
	DurationDays int                `json:"durationDays" validate:"required,gt=0,lte=365"`
	Description  string             `json:"description" validate:"omitempty,max=500"`
	IsActive     *bool              `json:"isActive"`
}

type BannerRequest struct {
	Title     string `json:"title" validate:"required,max=150"`
	ImageURL  string `json:"imageUrl" validate:"required,url"`
	LinkURL   string `json:"linkUrl" validate:"omitempty,url"`
	Position  string `json:"position" validate:"omitempty,oneof=home-top home-middle sidebar listing"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
	IsActive  *bool  `json:"isActive"`
}
