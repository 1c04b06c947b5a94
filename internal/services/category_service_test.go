package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"estatehub_backend/internal/cache"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type categoryFixture struct {
	categories    *memCategories
	subcategories *memSubcategories
	service       *CategoryService
	lookup        *LookupService
}

func newCategoryFixture() *categoryFixture {
	cats := newMemCategories()
	subs := newMemSubcategories()
	c := cache.NewCategoryCache(cats, time.Minute, nil)
	return &categoryFixture{
		categories:    cats,
		subcategories: subs,
		service:       NewCategoryService(cats, subs, c),
		lookup:        NewLookupService(cats, subs, c),
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCategoryService_CreateRejectsDuplicateSlug(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Buy", Slug: "buy"})
	require.NoError(t, err)

	_, err = f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Buy again", Slug: " BUY "})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateCategorySlug)

	n, err := f.categories.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCategoryService_WritesInvalidateActiveCache(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Buy", Slug: "buy", SortOrder: 1})
	require.NoError(t, err)

	first, err := f.service.ListActive(ctx)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Len(t, first.Data, 1)

	second, err := f.service.ListActive(ctx)
	require.NoError(t, err)
	assert.True(t, second.FromCache)

	_, err = f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Rent", Slug: "rent", SortOrder: 2})
	require.NoError(t, err)

	third, err := f.service.ListActive(ctx)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	require.Len(t, third.Data, 2)
	assert.Equal(t, "buy", third.Data[0].Slug)
	assert.Equal(t, "rent", third.Data[1].Slug)
}

func TestCategoryService_InactiveCategoriesStayOutOfActiveList(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Buy", Slug: "buy"})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Hidden", Slug: "hidden", IsActive: boolPtr(false)})
	require.NoError(t, err)

	active, err := f.service.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active.Data, 1)

	all, err := f.service.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoryService_SubcategoryCounter(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	buy, err := f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Buy", Slug: "buy"})
	require.NoError(t, err)

	sub, err := f.service.CreateSubcategory(ctx, buy.ID.Hex(), &dto.CreateSubcategoryRequest{Name: "Apartment", Slug: "apartment"})
	require.NoError(t, err)
	assert.Equal(t, buy.ID, sub.CategoryID)

	_, err = f.service.CreateSubcategory(ctx, buy.ID.Hex(), &dto.CreateSubcategoryRequest{Name: "Apartment 2", Slug: "apartment"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSubcategorySlug)

	got, err := f.service.GetByID(ctx, buy.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, got.SubcategoryCount, "a rejected duplicate must release its slot")
}

func TestCategoryService_SameSubcategorySlugUnderDifferentParents(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	buy, err := f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Buy", Slug: "buy"})
	require.NoError(t, err)
	rent, err := f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Rent", Slug: "rent"})
	require.NoError(t, err)

	_, err = f.service.CreateSubcategory(ctx, buy.ID.Hex(), &dto.CreateSubcategoryRequest{Name: "Villa", Slug: "villa"})
	require.NoError(t, err)
	_, err = f.service.CreateSubcategory(ctx, rent.ID.Hex(), &dto.CreateSubcategoryRequest{Name: "Villa", Slug: "villa"})
	assert.NoError(t, err)
}

func TestCategoryService_DeleteBlockedBySubcategories(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	buy, err := f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Buy", Slug: "buy"})
	require.NoError(t, err)
	sub, err := f.service.CreateSubcategory(ctx, buy.ID.Hex(), &dto.CreateSubcategoryRequest{Name: "Plot", Slug: "plot"})
	require.NoError(t, err)

	err = f.service.Delete(ctx, buy.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrCategoryHasSubcategories)

	require.NoError(t, f.service.DeleteSubcategory(ctx, sub.ID.Hex()))
	require.NoError(t, f.service.Delete(ctx, buy.ID.Hex()))

	_, err = f.service.GetByID(ctx, buy.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestCategoryService_UnknownIDs(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	_, err := f.service.GetByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	_, err = f.service.CreateSubcategory(ctx, "64b000000000000000000000", &dto.CreateSubcategoryRequest{Name: "X", Slug: "x"})
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	err = f.service.DeleteSubcategory(ctx, "64b000000000000000000000")
	assert.ErrorIs(t, err, apperrors.ErrSubcategoryNotFound)
}

// ============================================
// Lookup
// ============================================

func TestLookupService_ResolveSkipsInactive(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	rent, err := f.service.Create(ctx, &dto.CreateCategoryRequest{Name: "Rent", Slug: "rent"})
	require.NoError(t, err)
	_, err = f.service.CreateSubcategory(ctx, rent.ID.Hex(), &dto.CreateSubcategoryRequest{Name: "Flat", Slug: "flat"})
	require.NoError(t, err)
	_, err = f.service.CreateSubcategory(ctx, rent.ID.Hex(), &dto.CreateSubcategoryRequest{Name: "Old", Slug: "old", IsActive: boolPtr(false)})
	require.NoError(t, err)

	resolved, err := f.lookup.Resolve(ctx, "Rent", "flat")
	require.NoError(t, err)
	assert.Equal(t, "rent", resolved.Filter.PropertyType)
	assert.Equal(t, "flat", resolved.Filter.SubCategory)

	_, err = f.lookup.Resolve(ctx, "rent", "old")
	assert.ErrorIs(t, err, apperrors.ErrSubcategoryNotFound)

	subs, err := f.lookup.ListSubcategories(ctx, "rent")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestLookupService_PublicCategoriesFallsBackToFullListing(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	for _, req := range []dto.CreateCategoryRequest{
		{Name: "Rent", Slug: "rent", SortOrder: 2},
		{Name: "Buy", Slug: "buy", SortOrder: 1},
		{Name: "Commercial", Slug: "commercial", SortOrder: 2},
		{Name: "Hidden", Slug: "hidden", SortOrder: 0, IsActive: boolPtr(false)},
	} {
		req := req
		_, err := f.service.Create(ctx, &req)
		require.NoError(t, err)
	}

	f.categories.activeErr = errors.New("legacy documents")

	list, err := f.lookup.PublicCategories(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "buy", list[0].Slug)
	assert.Equal(t, "commercial", list[1].Slug, "ties on sortOrder break by name")
}

func TestLookupService_PublicCategoriesDefaultLimit(t *testing.T) {
	f := newCategoryFixture()
	ctx := context.Background()

	list, err := f.lookup.PublicCategories(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
