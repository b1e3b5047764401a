package catalog

import (
	"time"

	"github.com/codetroon/bobbin-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Category is an upstream catalog category.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Size is one product variant row with its stock count.
type Size struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StockLevel buckets the row for dashboard badges.
func (s Size) StockLevel() enums.StockLevel {
	return enums.StockLevelFor(s.Stock)
}

// Product mirrors the upstream product record. Prices arrive as JSON numbers
// and are held as decimals so cart math never goes through floats.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ProductCode string          `json:"productCode"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Details     *string         `json:"details"`
	Materials   []string        `json:"materials"`
	Colors      []string        `json:"colors"`
	Images      []string        `json:"images"`
	CategoryID  string          `json:"categoryId"`
	Category    *Category       `json:"category,omitempty"`
	Sizes       []Size          `json:"Size,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ListFilter narrows a product listing.
type ListFilter struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
}

// ProductPage is one page of listing results.
type ProductPage struct {
	Products []Product
	Meta     PageMeta
}

// PageMeta reports the pagination block when upstream supplied one. Total is
// zero for the bare-array envelope, which carries no counts.
type PageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ProductInput carries admin create/update fields. Pointer fields are omitted
// from the upstream PATCH when nil.
type ProductInput struct {
	Name        *string          `json:"name,omitempty"`
	ProductCode *string          `json:"productCode,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Details     *string          `json:"details,omitempty"`
	Materials   []string         `json:"materials,omitempty"`
	Colors      []string         `json:"colors,omitempty"`
	Images      []string         `json:"images,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
}

// SizeInput carries admin size create/update fields.
type SizeInput struct {
	Name      *string `json:"name,omitempty"`
	Stock     *int    `json:"stock,omitempty"`
	ProductID *string `json:"productId,omitempty"`
}
