package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// Document is the indexed shape of an approved, active listing.
type Document struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Price        int64   `json:"price"`
	PropertyType string  `json:"propertyType"`
	SubCategory  string  `json:"subCategory,omitempty"`
	City         string  `json:"city"`
	State        string  `json:"state,omitempty"`
	Address      string  `json:"address,omitempty"`
	Bedrooms     int     `json:"bedrooms,omitempty"`
	AreaSqft     float64 `json:"areaSqft,omitempty"`
	Featured     bool    `json:"featured"`
	Premium      bool    `json:"premium"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	CreatedAt    int64   `json:"createdAt"`
}

func DocumentFrom(p *models.Property) Document {
	doc := Document{
		ID:           p.ID.Hex(),
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		PropertyType: p.PropertyType,
		SubCategory:  p.SubCategory,
		City:         p.Location.City,
		State:        p.Location.State,
		Address:      p.Location.Address,
		Bedrooms:     p.Specifications.Bedrooms,
		AreaSqft:     p.Specifications.AreaSqft,
		Featured:     p.Featured,
		Premium:      p.Premium,
		CreatedAt:    p.CreatedAt.Unix(),
	}
	if len(p.Images) > 0 {
		doc.ImageURL = p.Images[0].ThumbnailURL
		if doc.ImageURL == "" {
			doc.ImageURL = p.Images[0].URL
		}
	}
	return doc
}

type Query struct {
	Text         string
	PropertyType string
	SubCategory  string
	City         string
	MinPrice     int64
	MaxPrice     int64
	Page         int
	PageSize     int
}

type Result struct {
	Hits   []Document `json:"hits"`
	Total  int64      `json:"total"`
	TookMs int64      `json:"tookMs"`
}

// Index is the listing search index. Disabled returns a no-op implementation.
type Index interface {
	Enabled() bool
	Init(ctx context.Context) error
	Upsert(ctx context.Context, docs ...Document) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q Query) (*Result, error)
}

type Client struct {
	client *meilisearch.Client
	index  string
}

// NewClient returns a Meilisearch-backed index, or a disabled one when host is empty.
func NewClient(host, apiKey, index string) Index {
	if strings.TrimSpace(host) == "" {
		return Disabled{}
	}
	if index == "" {
		index = "properties"
	}
	return &Client{
		client: meilisearch.NewClient(meilisearch.ClientConfig{
			Host:    host,
			APIKey:  apiKey,
			Timeout: 10 * time.Second,
		}),
		index: index,
	}
}

func (s *Client) Enabled() bool { return true }

// Init creates the index and its attribute settings. Settings tasks are
// asynchronous on the server side.
func (s *Client) Init(ctx context.Context) error {
	if _, err := s.client.CreateIndex(&meilisearch.IndexConfig{Uid: s.index, PrimaryKey: "id"}); err != nil {
		logger.CtxWarn(ctx, "create search index", "index", s.index, "error", err.Error())
	}

	idx := s.client.Index(s.index)
	if _, err := idx.UpdateSearchableAttributes(&[]string{
		"title", "description", "city", "address", "state", "propertyType", "subCategory",
	}); err != nil {
		return fmt.Errorf("searchable attributes: %w", err)
	}
	if _, err := idx.UpdateFilterableAttributes(&[]string{
		"propertyType", "subCategory", "city", "price", "featured", "premium", "bedrooms",
	}); err != nil {
		return fmt.Errorf("filterable attributes: %w", err)
	}
	if _, err := idx.UpdateSortableAttributes(&[]string{"price", "createdAt"}); err != nil {
		return fmt.Errorf("sortable attributes: %w", err)
	}
	return nil
}

func (s *Client) Upsert(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(docs, "id")
	return err
}

func (s *Client) Remove(ctx context.Context, id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

func (s *Client) Search(ctx context.Context, q Query) (*Result, error) {
	limit, offset := pageWindow(q.Page, q.PageSize)
	req := &meilisearch.SearchRequest{
		Limit:  limit,
		Offset: offset,
		Sort:   []string{"createdAt:desc"},
	}
	if f := BuildFilter(q); f != "" {
		req.Filter = f
	}

	res, err := s.client.Index(s.index).Search(q.Text, req)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Hits:   make([]Document, 0, len(res.Hits)),
		Total:  res.EstimatedTotalHits,
		TookMs: res.ProcessingTimeMs,
	}
	for _, hit := range res.Hits {
		if m, ok := hit.(map[string]interface{}); ok {
			out.Hits = append(out.Hits, documentFromHit(m))
		}
	}
	return out, nil
}

// BuildFilter renders the structured part of a query as a Meilisearch filter.
func BuildFilter(q Query) string {
	var filters []string
	if q.PropertyType != "" {
		filters = append(filters, fmt.Sprintf("propertyType = %s", quote(q.PropertyType)))
	}
	if q.SubCategory != "" {
		filters = append(filters, fmt.Sprintf("subCategory = %s", quote(q.SubCategory)))
	}
	if q.City != "" {
		filters = append(filters, fmt.Sprintf("city = %s", quote(q.City)))
	}
	if q.MinPrice > 0 {
		filters = append(filters, fmt.Sprintf("price >= %d", q.MinPrice))
	}
	if q.MaxPrice > 0 {
		filters = append(filters, fmt.Sprintf("price <= %d", q.MaxPrice))
	}
	return strings.Join(filters, " AND ")
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func pageWindow(page, pageSize int) (int64, int64) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page < 1 {
		page = 1
	}
	return int64(pageSize), int64((page - 1) * pageSize)
}

func documentFromHit(m map[string]interface{}) Document {
	return Document{
		ID:           getString(m, "id"),
		Title:        getString(m, "title"),
		Description:  getString(m, "description"),
		Price:        int64(getFloat(m, "price")),
		PropertyType: getString(m, "propertyType"),
		SubCategory:  getString(m, "subCategory"),
		City:         getString(m, "city"),
		State:        getString(m, "state"),
		Address:      getString(m, "address"),
		Bedrooms:     int(getFloat(m, "bedrooms")),
		AreaSqft:     getFloat(m, "areaSqft"),
		Featured:     getBool(m, "featured"),
		Premium:      getBool(m, "premium"),
		ImageURL:     getString(m, "imageUrl"),
		CreatedAt:    int64(getFloat(m, "createdAt")),
	}
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getFloat(m map[string]interface{}, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

func getBool(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// Disabled is used when no search host is configured.
type Disabled struct{}

var ErrDisabled = errors.New("search is not configured")

func (Disabled) Enabled() bool                             { return false }
func (Disabled) Init(context.Context) error                { return nil }
func (Disabled) Upsert(context.Context, ...Document) error { return nil }
func (Disabled) Remove(context.Context, string) error      { return nil }
func (Disabled) Search(context.Context, Query) (*Result, error) {
	return nil, ErrDisabled
}
