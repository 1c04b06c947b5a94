package app

import (
	"context"
	"errors"
	"fmt"

	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"
)

type seedCategory struct {
	Name          string
	Slug          string
	Icon          string
	SortOrder     int
	Subcategories []seedSubcategory
}

type seedSubcategory struct {
	Name string
	Slug string
}

var defaultCategories = []seedCategory{
	{Name: "Buy", Slug: "buy", Icon: "home", SortOrder: 1, Subcategories: []seedSubcategory{
		{"Apartment", "apartment"}, {"Independent House", "independent-house"}, {"Villa", "villa"}, {"Plot", "plot"},
	}},
	{Name: "Rent", Slug: "rent", Icon: "key", SortOrder: 2, Subcategories: []seedSubcategory{
		{"Apartment", "apartment"}, {"Independent House", "independent-house"}, {"Studio", "studio"},
	}},
	{Name: "Commercial", Slug: "commercial", Icon: "briefcase", SortOrder: 3, Subcategories: []seedSubcategory{
		{"Office Space", "office-space"}, {"Shop", "shop"}, {"Warehouse", "warehouse"},
	}},
	{Name: "PG", Slug: "pg", Icon: "bed", SortOrder: 4, Subcategories: []seedSubcategory{
		{"Boys", "boys"}, {"Girls", "girls"}, {"Co-living", "co-living"},
	}},
}

// Seed creates the first admin and the default categories. Running it twice
// changes nothing.
func (a *App) Seed(ctx context.Context) error {
	if err := a.seedFirstAdmin(ctx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := a.seedCategories(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}

func (a *App) seedFirstAdmin(ctx context.Context) error {
	adminEmail := a.Config.Admin.Email
	adminPassword := a.Config.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}
	if err := auth.ValidatePassword(adminPassword); err != nil {
		return err
	}

	users := repositories.NewUserRepository(a.DB)
	if _, err := users.FindByEmail(ctx, adminEmail); err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &models.User{
		Name:         a.Config.Admin.Name,
		Email:        adminEmail,
		PasswordHash: hash,
		UserType:     models.UserTypeAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", admin.Email)
	return nil
}

func (a *App) seedCategories(ctx context.Context) error {
	categories := a.Services.Category
	lookup := repositories.NewCategoryRepository(a.DB)

	for _, sc := range defaultCategories {
		cat, err := categories.Create(ctx, &dto.CreateCategoryRequest{
			Name:      sc.Name,
			Slug:      sc.Slug,
			Icon:      sc.Icon,
			SortOrder: sc.SortOrder,
		})
		if apperrors.Is(err, apperrors.ErrDuplicateCategorySlug) {
			cat, err = lookup.FindBySlug(ctx, sc.Slug)
		}
		if err != nil {
			return fmt.Errorf("category %q: %w", sc.Slug, err)
		}

		for i, sub := range sc.Subcategories {
			_, err := categories.CreateSubcategory(ctx, cat.ID.Hex(), &dto.CreateSubcategoryRequest{
				Name:      sub.Name,
				Slug:      sub.Slug,
				SortOrder: i + 1,
			})
			if err != nil && !apperrors.Is(err, apperrors.ErrDuplicateSubcategorySlug) {
				return fmt.Errorf("subcategory %s/%s: %w", sc.Slug, sub.Slug, err)
			}
		}
	}

	logger.Info("Default categories seeded", "count", len(defaultCategories))
	return nil
}
