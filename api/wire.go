package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/qyinm/gemtui/types"
)

// productID accepts both JSON strings and numbers. The backend has served
// UUID strings and integer ids at different times.
type productID string

func (id *productID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		*id = productID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = productID(n.String())
	return nil
}

type productJSON struct {
	ID          productID `json:"id"`
	Name        string    `json:"name"`
	Store       string    `json:"store"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Link        string    `json:"link"`
	IsFirefly   bool      `json:"isFirefly"`
}

func (p productJSON) toProduct() types.Product {
	return types.NewProduct(
		string(p.ID), p.Name, p.Store, p.Description,
		p.Price, p.Image, p.Link, p.IsFirefly,
	)
}

func toProducts(in []productJSON) []types.Product {
	out := make([]types.Product, 0, len(in))
	for _, p := range in {
		out = append(out, p.toProduct())
	}
	return out
}
