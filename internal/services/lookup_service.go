package services

import (
	"context"
	"sort"
	"strings"

	"estatehub_backend/internal/cache"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"
)

const DefaultPublicCategoryLimit = 10

// LookupService answers the public category and subcategory routes.
type LookupService struct {
	categories    repositories.CategoryRepository
	subcategories repositories.SubcategoryRepository
	cache         *cache.CategoryCache
}

func NewLookupService(
	categories repositories.CategoryRepository,
	subcategories repositories.SubcategoryRepository,
	categoryCache *cache.CategoryCache,
) *LookupService {
	return &LookupService{categories: categories, subcategories: subcategories, cache: categoryCache}
}

// GetCategoryBySlug returns the active category with slug.
func (s *LookupService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.categories.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, mapRepoErr(err, "find category by slug", apperrors.ErrCategoryNotFound, nil)
	}
	if !c.IsActive {
		return nil, apperrors.ErrCategoryNotFound
	}
	return c, nil
}

func (s *LookupService) ListSubcategories(ctx context.Context, categorySlug string) ([]models.Subcategory, error) {
	c, err := s.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	subs, err := s.subcategories.ListByCategory(ctx, c.ID, true)
	return subs, mapRepoErr(err, "list subcategories", nil, nil)
}

// Resolve maps /{category}/{subcategory} to the listing filter. subSlug may be empty.
func (s *LookupService) Resolve(ctx context.Context, categorySlug, subSlug string) (*dto.ResolvedCategory, error) {
	c, err := s.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}

	out := &dto.ResolvedCategory{
		Category: *c,
		Filter:   dto.ListingFilter{PropertyType: c.Slug},
	}
	if subSlug = strings.ToLower(strings.TrimSpace(subSlug)); subSlug == "" {
		return out, nil
	}

	sub, err := s.subcategories.FindBySlug(ctx, c.ID, subSlug)
	if err != nil {
		return nil, mapRepoErr(err, "find subcategory by slug", apperrors.ErrSubcategoryNotFound, nil)
	}
	if !sub.IsActive {
		return nil, apperrors.ErrSubcategoryNotFound
	}
	out.Subcategory = sub
	out.Filter.SubCategory = sub.Slug
	return out, nil
}

// PublicCategories reads the cached active list, falling back to the full
// normalized listing when the cached path fails. Both paths are sorted by
// (sortOrder, name) and cut to limit.
func (s *LookupService) PublicCategories(ctx context.Context, limit int) ([]models.Category, error) {
	if limit <= 0 {
		limit = DefaultPublicCategoryLimit
	}

	var list []models.Category
	res, err := s.cache.Get(ctx)
	if err == nil {
		list = append(list, res.Data...)
	} else {
		logger.CtxWarn(ctx, "active categories unavailable, using full listing", "error", err.Error())
		all, allErr := s.categories.ListAll(ctx)
		if allErr != nil {
			return nil, mapRepoErr(allErr, "list categories", nil, nil)
		}
		for _, c := range all {
			if c.IsActive {
				list = append(list, c)
			}
		}
	}

	sortByOrderThenName(list)
	if len(list) > limit {
		list = list[:limit]
	}
	if list == nil {
		list = []models.Category{}
	}
	return list, nil
}

func sortByOrderThenName(list []models.Category) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].SortOrder != list[j].SortOrder {
			return list[i].SortOrder < list[j].SortOrder
		}
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
}
