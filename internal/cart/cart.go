package cart

import (
	"donpollo_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// Cart est le panier d'une session : lignes ordonnées, une par produit.
// Les quantités restent dans [1, Stock] où Stock est la photo prise à l'ajout.
type Cart struct {
	Items []models.CartItem `json:"items"`
}

// Add ajoute une unité du produit. Sans effet si le produit n'a plus de stock
// ou si la quantité dépasserait la photo du stock. Retourne true si le panier a changé.
func (c *Cart) Add(p models.Product) bool {
	if p.Stock <= 0 {
		return false
	}

	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			if c.Items[i].Quantity+1 > c.Items[i].Stock {
				return false
			}
			c.Items[i].Quantity++
			return true
		}
	}

	c.Items = append(c.Items, models.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
		Stock:     p.Stock,
	})
	return true
}

// SetQuantity : qty <= 0 retire la ligne, qty au-delà de la photo du stock est ignorée
func (c *Cart) SetQuantity(productID int64, qty int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
		if qty > c.Items[i].Stock {
			return false
		}
		c.Items[i].Quantity = qty
		return true
	}
	return false
}

// Remove retire la ligne si elle existe
func (c *Cart) Remove(productID int64) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}
