package services

import (
	"context"
	"errors"
	"strings"

	"estatehub_backend/internal/cache"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"
)

// CategoryService owns category and subcategory writes. Every category write
// invalidates the active-category cache.
type CategoryService struct {
	categories    repositories.CategoryRepository
	subcategories repositories.SubcategoryRepository
	cache         *cache.CategoryCache
}

func NewCategoryService(
	categories repositories.CategoryRepository,
	subcategories repositories.SubcategoryRepository,
	categoryCache *cache.CategoryCache,
) *CategoryService {
	return &CategoryService{
		categories:    categories,
		subcategories: subcategories,
		cache:         categoryCache,
	}
}

// ============================================
// Reads
// ============================================

// ListActive serves the active list through the cache.
func (s *CategoryService) ListActive(ctx context.Context) (cache.Result, error) {
	res, err := s.cache.Get(ctx)
	if err != nil {
		return cache.Result{}, mapRepoErr(err, "list active categories", nil, nil)
	}
	return res, nil
}

// ListAll returns every category, normalized, bypassing the cache.
func (s *CategoryService) ListAll(ctx context.Context) ([]models.Category, error) {
	list, err := s.categories.ListAll(ctx)
	return list, mapRepoErr(err, "list categories", nil, nil)
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get category", apperrors.ErrCategoryNotFound, nil)
	}
	return c, nil
}

// ============================================
// Category writes
// ============================================

func (s *CategoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.ToLower(strings.TrimSpace(req.Slug)),
		Icon:        req.Icon,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    dto.BoolOr(req.IsActive, true),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, mapRepoErr(err, "create category", nil, apperrors.ErrDuplicateCategorySlug)
	}
	s.cache.Invalidate()

	logger.CtxInfo(ctx, "category created", "category_id", category.ID.Hex(), "slug", category.Slug)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		category.Slug = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, mapRepoErr(err, "update category", apperrors.ErrCategoryNotFound, apperrors.ErrDuplicateCategorySlug)
	}
	s.cache.Invalidate()
	return category, nil
}

// Delete refuses while the category still has subcategories.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	err := s.categories.DeleteIfUnreferenced(ctx, id)
	if errors.Is(err, repositories.ErrHasDependents) {
		return apperrors.ErrCategoryHasSubcategories
	}
	if err != nil {
		return mapRepoErr(err, "delete category", apperrors.ErrCategoryNotFound, nil)
	}
	s.cache.Invalidate()

	logger.CtxInfo(ctx, "category deleted", "category_id", id)
	return nil
}

// ============================================
// Subcategories
// ============================================

func (s *CategoryService) ListSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error) {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subcategories.ListByCategory(ctx, category.ID, false)
	return subs, mapRepoErr(err, "list subcategories", nil, nil)
}

// CreateSubcategory bumps the parent's counter before inserting so a
// concurrent category delete cannot slip in between.
func (s *CategoryService) CreateSubcategory(ctx context.Context, categoryID string, req *dto.CreateSubcategoryRequest) (*models.Subcategory, error) {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.categories.AdjustSubcategoryCount(ctx, category.ID, 1); err != nil {
		return nil, mapRepoErr(err, "reserve subcategory slot", apperrors.ErrCategoryNotFound, nil)
	}

	sub := &models.Subcategory{
		CategoryID: category.ID,
		Name:       strings.TrimSpace(req.Name),
		Slug:       strings.ToLower(strings.TrimSpace(req.Slug)),
		Icon:       req.Icon,
		SortOrder:  req.SortOrder,
		IsActive:   dto.BoolOr(req.IsActive, true),
	}
	if err := s.subcategories.Create(ctx, sub); err != nil {
		if rbErr := s.categories.AdjustSubcategoryCount(ctx, category.ID, -1); rbErr != nil {
			logger.CtxWithError(ctx, "failed to release subcategory slot", rbErr, "category_id", category.ID.Hex())
		}
		return nil, mapRepoErr(err, "create subcategory", nil, apperrors.ErrDuplicateSubcategorySlug)
	}

	logger.CtxInfo(ctx, "subcategory created", "category_id", category.ID.Hex(), "slug", sub.Slug)
	return sub, nil
}

func (s *CategoryService) UpdateSubcategory(ctx context.Context, id string, req *dto.UpdateSubcategoryRequest) (*models.Subcategory, error) {
	sub, err := s.subcategories.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get subcategory", apperrors.ErrSubcategoryNotFound, nil)
	}

	if req.Name != nil {
		sub.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		sub.Slug = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if req.Icon != nil {
		sub.Icon = *req.Icon
	}
	if req.SortOrder != nil {
		sub.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := s.subcategories.Update(ctx, sub); err != nil {
		return nil, mapRepoErr(err, "update subcategory", apperrors.ErrSubcategoryNotFound, apperrors.ErrDuplicateSubcategorySlug)
	}
	return sub, nil
}

func (s *CategoryService) DeleteSubcategory(ctx context.Context, id string) error {
	sub, err := s.subcategories.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, "get subcategory", apperrors.ErrSubcategoryNotFound, nil)
	}

	if err := s.subcategories.Delete(ctx, sub.ID); err != nil {
		return mapRepoErr(err, "delete subcategory", apperrors.ErrSubcategoryNotFound, nil)
	}

	// A missing parent here is a legacy orphan; nothing to release.
	if err := s.categories.AdjustSubcategoryCount(ctx, sub.CategoryID, -1); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.CtxWithError(ctx, "failed to release subcategory slot", err, "category_id", sub.CategoryID.Hex())
	}
	return nil
}
