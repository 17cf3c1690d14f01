package models

import "github.com/shopspring/decimal"

// CartItem est une ligne du panier de session.
// Stock est la photo du stock prise à l'ajout : elle borne les modifications de quantité.
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
}

// Subtotal = prix unitaire × quantité
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
