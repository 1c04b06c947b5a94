package services

import (
	"bytes"
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"estatehub_backend/internal/imageprocessor"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/search"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/internal/storage"
	"estatehub_backend/pkg/apperrors"
)

type PropertyService struct {
	properties repositories.PropertyRepository
	lookup     *LookupService
	index      search.Index
	storage    storage.Storage
	images     *imageprocessor.Processor
	now        func() time.Time
}

func NewPropertyService(
	properties repositories.PropertyRepository,
	lookup *LookupService,
	index search.Index,
	store storage.Storage,
	images *imageprocessor.Processor,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		lookup:     lookup,
		index:      index,
		storage:    store,
		images:     images,
		now:        time.Now,
	}
}

// ============================================
// Reads
// ============================================

// Get hides listings that are not public from everyone but the owner and admins.
func (s *PropertyService) Get(ctx context.Context, actor Actor, id string) (*models.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get property", apperrors.ErrPropertyNotFound, nil)
	}
	if !p.IsPublic() && !actor.IsAdmin() && p.OwnerID != actor.ID {
		return nil, apperrors.ErrPropertyNotFound
	}
	return p, nil
}

func (s *PropertyService) ListPublic(ctx context.Context, q *dto.PropertyListQuery) ([]models.Property, int64, error) {
	list, total, err := s.properties.List(ctx, repositories.PropertyFilter{
		PropertyType: strings.ToLower(q.Category),
		SubCategory:  strings.ToLower(q.Subcategory),
		City:         q.City,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		Featured:     q.Featured,
		Premium:      q.Premium,
		PublicOnly:   true,
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	return list, total, mapRepoErr(err, "list properties", nil, nil)
}

func (s *PropertyService) ListMine(ctx context.Context, actor Actor, page, pageSize int) ([]models.Property, int64, error) {
	owner := actor.ID
	list, total, err := s.properties.List(ctx, repositories.PropertyFilter{OwnerID: &owner, Page: page, PageSize: pageSize})
	return list, total, mapRepoErr(err, "list own properties", nil, nil)
}

func (s *PropertyService) AdminList(ctx context.Context, q *dto.AdminPropertyQuery) ([]models.Property, int64, error) {
	list, total, err := s.properties.List(ctx, repositories.PropertyFilter{
		ApprovalStatus: q.ApprovalStatus,
		Page:           q.Page,
		PageSize:       q.PageSize,
	})
	return list, total, mapRepoErr(err, "admin list properties", nil, nil)
}

// Search queries the listing index. Only approved, active listings are indexed.
func (s *PropertyService) Search(ctx context.Context, q *dto.SearchQuery) (*search.Result, error) {
	if !s.index.Enabled() {
		return nil, apperrors.New(apperrors.CodeExternalServiceError, apperrors.DomainSearch, "Search is not available", http.StatusServiceUnavailable)
	}
	res, err := s.index.Search(ctx, search.Query{
		Text:         q.Q,
		PropertyType: strings.ToLower(q.Category),
		SubCategory:  strings.ToLower(q.Subcategory),
		City:         q.City,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	if err != nil {
		return nil, apperrors.ExternalServiceError(err, apperrors.DomainSearch, "Search failed")
	}
	return res, nil
}

// ============================================
// Owner writes
// ============================================

func (s *PropertyService) Create(ctx context.Context, actor Actor, req *dto.CreatePropertyRequest) (*models.Property, error) {
	if _, err := s.lookup.Resolve(ctx, req.PropertyType, req.SubCategory); err != nil {
		return nil, err
	}

	p := &models.Property{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Price:          req.Price,
		PropertyType:   strings.ToLower(req.PropertyType),
		SubCategory:    strings.ToLower(req.SubCategory),
		Location:       locationFrom(req.Location),
		Specifications: specificationsFrom(req.Specifications),
		OwnerID:        actor.ID,
		Status:         models.PropertyStatusActive,
		ApprovalStatus: models.ApprovalStatusPending,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, mapRepoErr(err, "create property", nil, nil)
	}

	logger.CtxInfo(ctx, "property created", "property_id", p.ID.Hex(), "owner_id", actor.ID.Hex())
	return p, nil
}

// Update applies the owner's edits. A change to the listing's content sends
// it back to moderation; a request that changes nothing writes nothing.
func (s *PropertyService) Update(ctx context.Context, actor Actor, id string, req *dto.UpdatePropertyRequest) (*models.Property, error) {
	p, err := s.ownedProperty(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	before := *p

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.PropertyType != nil {
		p.PropertyType = strings.ToLower(*req.PropertyType)
		if req.SubCategory == nil {
			p.SubCategory = ""
		}
	}
	if req.SubCategory != nil {
		p.SubCategory = strings.ToLower(*req.SubCategory)
	}
	if req.Location != nil {
		p.Location = locationFrom(*req.Location)
	}
	if req.Specifications != nil {
		p.Specifications = specificationsFrom(*req.Specifications)
	}

	if !contentChanged(&before, p) {
		return p, nil
	}
	if p.PropertyType != before.PropertyType || p.SubCategory != before.SubCategory {
		if _, err := s.lookup.Resolve(ctx, p.PropertyType, p.SubCategory); err != nil {
			return nil, err
		}
	}

	if !actor.IsAdmin() {
		p.ApprovalStatus = models.ApprovalStatusPending
		p.RejectionReason = ""
	}
	if err := s.properties.Update(ctx, p); err != nil {
		return nil, mapRepoErr(err, "update property", apperrors.ErrPropertyNotFound, nil)
	}
	s.syncIndex(ctx, p)
	return p, nil
}

// Retire soft-deletes the listing.
func (s *PropertyService) Retire(ctx context.Context, actor Actor, id string) error {
	p, err := s.ownedProperty(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.properties.SetStatus(ctx, p.ID, models.PropertyStatusInactive); err != nil {
		return mapRepoErr(err, "retire property", apperrors.ErrPropertyNotFound, nil)
	}
	p.Status = models.PropertyStatusInactive
	s.syncIndex(ctx, p)
	return nil
}

// AddImage stores the original and a JPEG thumbnail, then attaches both to the listing.
func (s *PropertyService) AddImage(ctx context.Context, actor Actor, id, filename, contentType string, data []byte) (*models.PropertyImage, error) {
	p, err := s.ownedProperty(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	thumb, err := s.images.Thumbnail(data, imageprocessor.SizeThumbnail)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType.WithError(err)
	}

	origKey, thumbKey := storage.PropertyImageKeys(p.ID.Hex(), path.Ext(filename))
	if err := s.storage.Save(ctx, origKey, bytes.NewReader(data), contentType); err != nil {
		return nil, apperrors.ExternalServiceError(err, apperrors.DomainStorage, "Failed to store image")
	}
	if err := s.storage.Save(ctx, thumbKey, bytes.NewReader(thumb), "image/jpeg"); err != nil {
		s.discard(ctx, origKey)
		return nil, apperrors.ExternalServiceError(err, apperrors.DomainStorage, "Failed to store thumbnail")
	}

	img := models.PropertyImage{
		URL:          s.storage.URL(origKey),
		ThumbnailURL: s.storage.URL(thumbKey),
		Key:          origKey,
		ThumbKey:     thumbKey,
	}
	if err := s.properties.AddImage(ctx, p.ID, img); err != nil {
		s.discard(ctx, origKey, thumbKey)
		return nil, mapRepoErr(err, "attach image", apperrors.ErrPropertyNotFound, nil)
	}

	p.Images = append(p.Images, img)
	s.syncIndex(ctx, p)
	return &img, nil
}

func (s *PropertyService) discard(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if err := s.storage.Delete(ctx, k); err != nil {
			logger.CtxWithError(ctx, "failed to remove orphaned image", err, "key", k)
		}
	}
}

// ============================================
// Moderation
// ============================================

func (s *PropertyService) Approve(ctx context.Context, id string) (*models.Property, error) {
	return s.moderate(ctx, id, models.ApprovalStatusApproved, "")
}

func (s *PropertyService) Reject(ctx context.Context, id, reason string) (*models.Property, error) {
	return s.moderate(ctx, id, models.ApprovalStatusRejected, strings.TrimSpace(reason))
}

func (s *PropertyService) moderate(ctx context.Context, id string, status models.ApprovalStatus, reason string) (*models.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get property", apperrors.ErrPropertyNotFound, nil)
	}
	if err := s.properties.SetApproval(ctx, p.ID, status, reason); err != nil {
		return nil, mapRepoErr(err, "moderate property", apperrors.ErrPropertyNotFound, nil)
	}
	p.ApprovalStatus = status
	p.RejectionReason = reason
	s.syncIndex(ctx, p)

	logger.CtxInfo(ctx, "property moderated", "property_id", p.ID.Hex(), "approval_status", status)
	return p, nil
}

func (s *PropertyService) SetFeatured(ctx context.Context, id string, featured bool) (*models.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get property", apperrors.ErrPropertyNotFound, nil)
	}
	if err := s.properties.SetFeatured(ctx, p.ID, featured); err != nil {
		return nil, mapRepoErr(err, "feature property", apperrors.ErrPropertyNotFound, nil)
	}
	p.Featured = featured
	p.FeaturedUntil = nil
	s.syncIndex(ctx, p)
	return p, nil
}

// ============================================
// Promotions
// ============================================

// ApplyPromotion marks the listing featured or premium for days from now and
// returns when that promotion ends.
func (s *PropertyService) ApplyPromotion(ctx context.Context, p *models.Property, kind models.PackageType, days int) (time.Time, error) {
	until := s.now().UTC().AddDate(0, 0, days)
	if err := s.properties.ApplyPromotion(ctx, p.ID, kind, until); err != nil {
		return time.Time{}, mapRepoErr(err, "apply promotion", apperrors.ErrPropertyNotFound, nil)
	}
	end := p.Promote(kind, until)
	s.syncIndex(ctx, p)
	return end, nil
}

// ExpirePromotions clears each paid flag whose own expiry has passed.
func (s *PropertyService) ExpirePromotions(ctx context.Context) (int64, error) {
	n, err := s.properties.ClearExpiredPromotions(ctx, s.now())
	return n, mapRepoErr(err, "expire promotions", nil, nil)
}

// Reindex pushes every public listing to the search index.
func (s *PropertyService) Reindex(ctx context.Context) (int, error) {
	if !s.index.Enabled() {
		return 0, search.ErrDisabled
	}
	if err := s.index.Init(ctx); err != nil {
		return 0, err
	}

	const batchSize = 500
	batch := make([]search.Document, 0, batchSize)
	count := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.index.Upsert(ctx, batch...); err != nil {
			return err
		}
		count += len(batch)
		batch = batch[:0]
		return nil
	}

	err := s.properties.ForEachPublic(ctx, func(p models.Property) error {
		batch = append(batch, search.DocumentFrom(&p))
		if len(batch) == batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, flush()
}

// ============================================
// Helpers
// ============================================

func (s *PropertyService) ownedProperty(ctx context.Context, actor Actor, id string) (*models.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get property", apperrors.ErrPropertyNotFound, nil)
	}
	if p.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrNotPropertyOwner
	}
	return p, nil
}

// syncIndex keeps the search index in line with the listing's visibility.
// Index failures are logged; MongoDB stays the source of truth.
func (s *PropertyService) syncIndex(ctx context.Context, p *models.Property) {
	if !s.index.Enabled() {
		return
	}
	var err error
	if p.IsPublic() {
		err = s.index.Upsert(ctx, search.DocumentFrom(p))
	} else {
		err = s.index.Remove(ctx, p.ID.Hex())
	}
	if err != nil {
		logger.CtxWithError(ctx, "search index sync failed", err, "property_id", p.ID.Hex())
	}
}

func contentChanged(a, b *models.Property) bool {
	return a.Title != b.Title ||
		a.Description != b.Description ||
		a.Price != b.Price ||
		a.PropertyType != b.PropertyType ||
		a.SubCategory != b.SubCategory ||
		a.Location != b.Location ||
		a.Specifications != b.Specifications
}

func locationFrom(in dto.LocationInput) models.Location {
	return models.Location{
		Address: strings.TrimSpace(in.Address),
		City:    strings.TrimSpace(in.City),
		State:   strings.TrimSpace(in.State),
		Pincode: in.Pincode,
	}
}

func specificationsFrom(in dto.SpecificationsInput) models.Specifications {
	return models.Specifications{
		Bedrooms:   in.Bedrooms,
		Bathrooms:  in.Bathrooms,
		AreaSqft:   in.AreaSqft,
		Furnishing: in.Furnishing,
	}
}
