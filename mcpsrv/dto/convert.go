package dto

import (
	"github.com/qyinm/gemtui/types"
)

func FromProduct(p types.Product) Product {
	return Product{
		ID:          p.ID(),
		Name:        p.Name(),
		Store:       p.Store(),
		Description: p.Description(),
		Price:       p.Price(),
		Image:       p.Image(),
		Link:        p.Link(),
		IsFirefly:   p.IsFirefly(),
	}
}

func FromProducts(products []types.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}
	return out
}

func FromCategory(c types.Category) Category {
	return Category{Slug: c.String(), Label: c.Label()}
}

func FromCategories(categories []types.Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, FromCategory(c))
	}
	return out
}

func FromQuery(q types.ProductQuery) Query {
	return Query{MinPrice: q.MinPrice, MaxPrice: q.MaxPrice, Category: q.Category}
}
