package types

import (
	"context"
	"fmt"
	"strings"
)

// Price domain for the range filter, in the backend's currency unit.
const (
	PriceFloor   = 0
	PriceCeiling = 500000
	PriceStep    = 1000
)

// DefaultRange is the committed range a fresh session starts with.
var DefaultRange = PriceRange{Min: 5000, Max: 100000}

// Category represents the jewelry type filter
type Category int

const (
	CategoryAll Category = iota
	CategoryRing
	CategoryPendant
	CategoryEarring
	CategoryBracelet
)

// AllCategories lists the selectable categories in display order.
var AllCategories = []Category{CategoryAll, CategoryRing, CategoryPendant, CategoryEarring, CategoryBracelet}

// String returns the wire value of the category
func (c Category) String() string {
	switch c {
	case CategoryAll:
		return "all"
	case CategoryRing:
		return "ring"
	case CategoryPendant:
		return "pendant"
	case CategoryEarring:
		return "earring"
	case CategoryBracelet:
		return "bracelet"
	default:
		return "unknown"
	}
}

// Label returns the human readable name used in tab bars.
func (c Category) Label() string {
	switch c {
	case CategoryAll:
		return "All Jewelry"
	case CategoryRing:
		return "Rings"
	case CategoryPendant:
		return "Pendants"
	case CategoryEarring:
		return "Earrings"
	case CategoryBracelet:
		return "Bracelets"
	default:
		return "Unknown"
	}
}

// ParseCategory maps a wire value to a Category. Empty input means CategoryAll.
func ParseCategory(raw string) (Category, error) {
	v := strings.TrimSpace(strings.ToLower(raw))
	if v == "" {
		return CategoryAll, nil
	}
	for _, c := range AllCategories {
		if c.String() == v {
			return c, nil
		}
	}
	return CategoryAll, fmt.Errorf("invalid category %q; expected all|ring|pendant|earring|bracelet", raw)
}

// PriceRange is an ordered pair of price bounds
type PriceRange struct {
	Min int
	Max int
}

// Valid reports whether floor <= Min < Max <= ceiling.
func (r PriceRange) Valid() bool {
	return r.Min >= PriceFloor && r.Min < r.Max && r.Max <= PriceCeiling
}

// Filter is the committed filter state driving a fetch.
type Filter struct {
	Range    PriceRange
	Category Category
}

// Query converts the filter into request parameters. CategoryAll is omitted.
func (f Filter) Query() ProductQuery {
	minPrice, maxPrice := f.Range.Min, f.Range.Max
	q := ProductQuery{MinPrice: &minPrice, MaxPrice: &maxPrice}
	if f.Category != CategoryAll {
		q.Category = f.Category.String()
	}
	return q
}

// ProductQuery holds the optional list parameters. Nil or empty fields are
// left out of the request.
type ProductQuery struct {
	MinPrice *int
	MaxPrice *int
	Category string
}

// Product represents a listing returned by the comparison backend
type Product struct {
	id          string
	name        string
	store       string
	description string
	price       float64
	image       string
	link        string
	isFirefly   bool
}

// NewProduct creates a new Product with the given fields
func NewProduct(id, name, store, description string, price float64, image, link string, isFirefly bool) Product {
	return Product{
		id:          id,
		name:        name,
		store:       store,
		description: description,
		price:       price,
		image:       image,
		link:        link,
		isFirefly:   isFirefly,
	}
}

// Getters for Product fields
func (p Product) ID() string          { return p.id }
func (p Product) Name() string        { return p.name }
func (p Product) Store() string       { return p.store }
func (p Product) Description() string { return p.description }
func (p Product) Price() float64      { return p.price }
func (p Product) Image() string       { return p.image }
func (p Product) Link() string        { return p.link }
func (p Product) IsFirefly() bool     { return p.isFirefly }

// ProductSource is the core abstraction for data access.
// Sync methods only, no bubbletea dependency, so the MCP server can call
// them directly.
type ProductSource interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	RefreshProduct(ctx context.Context, id string) (Product, error)
}
