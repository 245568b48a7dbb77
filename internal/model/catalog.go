package model

import (
	"math"
	"time"
)

// Brand is a named, slugged vendor entity. Name and Slug are both
// globally unique among brands.
type Brand struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category is a node in the category forest. ParentID is nil for roots.
// Deleting a category deletes its whole subtree; products referencing a
// deleted node keep existing with their category reference cleared.
type Category struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ParentID    *uint64   `json:"parent_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product status enumeration, persisted as a string column.
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)

// ValidProductStatus reports whether s is one of the three known states.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product mirrors the `products` table. CategoryID and BrandID are
// nullable references that get cleared (not cascaded) when their target
// is deleted. Price is the base price; DiscountPrice only takes effect
// when strictly lower than Price.
type Product struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	CategoryID       *uint64   `json:"category_id"`
	BrandID          *uint64   `json:"brand_id"`
	Price            float64   `json:"price"`
	DiscountPrice    *float64  `json:"discount_price"`
	Stock            int       `json:"stock"`
	Rating           float64   `json:"rating"`
	ReviewsCount     int       `json:"reviews_count"`
	Status           string    `json:"status"`
	IsFeatured       bool      `json:"is_featured"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasDiscount reports whether the discount price is set and actually
// lowers the charged amount.
func (p Product) HasDiscount() bool {
	return p.DiscountPrice != nil && *p.DiscountPrice < p.Price
}

// DiscountPercentage returns the effective discount as a percentage of
// the base price, rounded to two decimals. It is 0 whenever there is no
// effective discount. Price is validated to be strictly positive at
// write time, so the division is always defined.
func (p Product) DiscountPercentage() float64 {
	if !p.HasDiscount() {
		return 0
	}
	pct := (p.Price - *p.DiscountPrice) / p.Price * 100
	return math.Round(pct*100) / 100
}

// IsInStock reports whether any units remain.
func (p Product) IsInStock() bool { return p.Stock > 0 }

// ProductImage belongs to exactly one product. At most one image per
// product carries IsPrimary=true; the repository enforces this on every
// write, not just at creation.
type ProductImage struct {
	ID        uint64    `json:"id"`
	ProductID uint64    `json:"product_id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
