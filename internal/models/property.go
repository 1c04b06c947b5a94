package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Location struct {
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode string `bson:"pincode,omitempty" json:"pincode,omitempty"`
}

type Specifications struct {
	Bedrooms   int     `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms  int     `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	AreaSqft   float64 `bson:"areaSqft,omitempty" json:"areaSqft,omitempty"`
	Furnishing string  `bson:"furnishing,omitempty" json:"furnishing,omitempty"`
}

type PropertyImage struct {
	URL          string `bson:"url" json:"url"`
	ThumbnailURL string `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	Key          string `bson:"key" json:"-"`
	ThumbKey     string `bson:"thumbKey,omitempty" json:"-"`
}

// Property is a listing. PropertyType holds the category slug and SubCategory
// the subcategory slug.
type Property struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Price           int64              `bson:"price" json:"price"`
	PropertyType    string             `bson:"propertyType" json:"propertyType"`
	SubCategory     string             `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Location        Location           `bson:"location" json:"location"`
	Specifications  Specifications     `bson:"specifications" json:"specifications"`
	Images          []PropertyImage    `bson:"images" json:"images"`
	OwnerID         primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Status          PropertyStatus     `bson:"status" json:"status"`
	ApprovalStatus  ApprovalStatus     `bson:"approvalStatus" json:"approvalStatus"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Featured        bool               `bson:"featured" json:"featured"`
	Premium         bool               `bson:"premium" json:"premium"`
	FeaturedUntil   *time.Time         `bson:"featuredUntil,omitempty" json:"featuredUntil,omitempty"`
	PremiumUntil    *time.Time         `bson:"premiumUntil,omitempty" json:"premiumUntil,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsPublic reports whether the listing may be shown to anonymous visitors.
func (p *Property) IsPublic() bool {
	return p.Status == PropertyStatusActive && p.ApprovalStatus == ApprovalStatusApproved
}

// PromotionFields returns the flag and expiry field a package type writes to.
func PromotionFields(kind PackageType) (flag, until string) {
	if kind == PackageTypePremium {
		return "premium", "premiumUntil"
	}
	return "featured", "featuredUntil"
}

// Promote sets the flag for kind and extends its expiry to until. An expiry
// already later than until is kept. It returns the effective expiry.
func (p *Property) Promote(kind PackageType, until time.Time) time.Time {
	end := &p.FeaturedUntil
	if kind == PackageTypePremium {
		p.Premium = true
		end = &p.PremiumUntil
	} else {
		p.Featured = true
	}
	if *end == nil || (*end).Before(until) {
		u := until
		*end = &u
	}
	return **end
}
