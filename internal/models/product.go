package models

import "github.com/shopspring/decimal"

// DefaultImage est l'image attribuée aux produits créés sans visuel
const DefaultImage = "default.jpg"

type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	Image       string          `json:"image" db:"image"`
}

// ProductInput est le payload admin de création / modification
type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock" binding:"required"`
	Image       string          `json:"image"`
}
