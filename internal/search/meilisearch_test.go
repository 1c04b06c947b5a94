package search

import (
	"context"
	"testing"
	"time"

	"estatehub_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFilter(t *testing.T) {
	assert.Equal(t, "", BuildFilter(Query{Text: "villa"}))
	assert.Equal(t,
		`propertyType = "buy" AND subCategory = "flat" AND city = "Pune" AND price >= 100 AND price <= 500`,
		BuildFilter(Query{PropertyType: "buy", SubCategory: "flat", City: "Pune", MinPrice: 100, MaxPrice: 500}))
	assert.Equal(t, `city = "a\"b"`, BuildFilter(Query{City: `a"b`}))
}

func TestDocumentFrom(t *testing.T) {
	p := &models.Property{
		ID:           primitive.NewObjectID(),
		Title:        "2BHK",
		Price:        4500000,
		PropertyType: "buy",
		Location:     models.Location{City: "Mumbai"},
		Images:       []models.PropertyImage{{URL: "full.jpg", ThumbnailURL: "thumb.jpg"}},
		CreatedAt:    time.Unix(1700000000, 0),
	}
	doc := DocumentFrom(p)
	assert.Equal(t, p.ID.Hex(), doc.ID)
	assert.Equal(t, "Mumbai", doc.City)
	assert.Equal(t, "thumb.jpg", doc.ImageURL)
	assert.Equal(t, int64(1700000000), doc.CreatedAt)
}

func TestPageWindow(t *testing.T) {
	limit, offset := pageWindow(0, 0)
	assert.Equal(t, int64(20), limit)
	assert.Equal(t, int64(0), offset)

	limit, offset = pageWindow(3, 10)
	assert.Equal(t, int64(10), limit)
	assert.Equal(t, int64(20), offset)
}

func TestDisabledIndex(t *testing.T) {
	idx := NewClient("", "", "")
	assert.False(t, idx.Enabled())
	assert.NoError(t, idx.Upsert(context.Background(), Document{ID: "x"}))
	_, err := idx.Search(context.Background(), Query{Text: "x"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestDocumentFromHit(t *testing.T) {
	doc := documentFromHit(map[string]interface{}{
		"id": "abc", "title": "Plot", "price": float64(900), "featured": true, "bedrooms": float64(2),
	})
	assert.Equal(t, "abc", doc.ID)
	assert.Equal(t, int64(900), doc.Price)
	assert.True(t, doc.Featured)
	assert.Equal(t, 2, doc.Bedrooms)
}
