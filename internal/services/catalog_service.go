package services

import (
	"context"
	"strings"

	"estatehub_backend/internal/models"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"
)

// CatalogService manages promotion packages and homepage banners.
type CatalogService struct {
	packages repositories.PackageRepository
	banners  repositories.BannerRepository
}

func NewCatalogService(packages repositories.PackageRepository, banners repositories.BannerRepository) *CatalogService {
	return &CatalogService{packages: packages, banners: banners}
}

// ============================================
// Packages
// ============================================

func (s *CatalogService) ListPackages(ctx context.Context, activeOnly bool) ([]models.Package, error) {
	list, err := s.packages.List(ctx, activeOnly)
	return list, mapRepoErr(err, "list packages", nil, nil)
}

func (s *CatalogService) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get package", apperrors.ErrPackageNotFound, nil)
	}
	return pkg, nil
}

func (s *CatalogService) CreatePackage(ctx context.Context, req *dto.PackageRequest) (*models.Package, error) {
	pkg := &models.Package{}
	applyPackage(pkg, req)
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, mapRepoErr(err, "create package", nil, nil)
	}
	return pkg, nil
}

func (s *CatalogService) UpdatePackage(ctx context.Context, id string, req *dto.PackageRequest) (*models.Package, error) {
	pkg, err := s.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPackage(pkg, req)
	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, mapRepoErr(err, "update package", apperrors.ErrPackageNotFound, nil)
	}
	return pkg, nil
}

func (s *CatalogService) DeletePackage(ctx context.Context, id string) error {
	return mapRepoErr(s.packages.Delete(ctx, id), "delete package", apperrors.ErrPackageNotFound, nil)
}

func applyPackage(pkg *models.Package, req *dto.PackageRequest) {
	pkg.Name = strings.TrimSpace(req.Name)
	pkg.Type = req.Type
	pkg.Price = req.Price
	pkg.DurationDays = req.DurationDays
	pkg.Description = req.Description
	pkg.IsActive = dto.BoolOr(req.IsActive, true)
}

// ============================================
// Banners
// ============================================

func (s *CatalogService) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	list, err := s.banners.List(ctx, activeOnly)
	return list, mapRepoErr(err, "list banners", nil, nil)
}

func (s *CatalogService) GetBanner(ctx context.Context, id string) (*models.Banner, error) {
	b, err := s.banners.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get banner", apperrors.ErrBannerNotFound, nil)
	}
	return b, nil
}

func (s *CatalogService) CreateBanner(ctx context.Context, req *dto.BannerRequest) (*models.Banner, error) {
	b := &models.Banner{}
	applyBanner(b, req)
	if err := s.banners.Create(ctx, b); err != nil {
		return nil, mapRepoErr(err, "create banner", nil, nil)
	}
	return b, nil
}

func (s *CatalogService) UpdateBanner(ctx context.Context, id string, req *dto.BannerRequest) (*models.Banner, error) {
	b, err := s.GetBanner(ctx, id)
	if err != nil {
		return nil, err
	}
	applyBanner(b, req)
	if err := s.banners.Update(ctx, b); err != nil {
		return nil, mapRepoErr(err, "update banner", apperrors.ErrBannerNotFound, nil)
	}
	return b, nil
}

func (s *CatalogService) DeleteBanner(ctx context.Context, id string) error {
	return mapRepoErr(s.banners.Delete(ctx, id), "delete banner", apperrors.ErrBannerNotFound, nil)
}

func applyBanner(b *models.Banner, req *dto.BannerRequest) {
	b.Title = strings.TrimSpace(req.Title)
	b.ImageURL = req.ImageURL
	b.LinkURL = req.LinkURL
	b.Position = req.Position
	b.SortOrder = req.SortOrder
	b.IsActive = dto.BoolOr(req.IsActive, true)
}
