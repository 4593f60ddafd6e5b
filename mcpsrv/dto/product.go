package dto

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Store       string  `json:"store"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Link        string  `json:"link"`
	IsFirefly   bool    `json:"is_firefly"`
}

type Category struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}
