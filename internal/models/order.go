package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPending = "pending"

type Order struct {
	ID              int64           `json:"id" db:"id"`
	OrderNumber     string          `json:"order_number" db:"order_number"`
	CustomerName    string          `json:"customer_name" db:"customer_name"`
	CustomerPhone   string          `json:"customer_phone" db:"customer_phone"`
	CustomerAddress string          `json:"customer_address" db:"customer_address"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	Total           decimal.Decimal `json:"total" db:"total"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

type OrderLine struct {
	ID          int64           `json:"id" db:"id"`
	OrderID     int64           `json:"order_id" db:"order_id"`
	ProductID   int64           `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// Customer regroupe les champs saisis au passage de commande
type Customer struct {
	Name          string `json:"name" form:"nombre" binding:"required"`
	Phone         string `json:"phone" form:"telefono" binding:"required"`
	Address       string `json:"address" form:"direccion" binding:"required"`
	PaymentMethod string `json:"payment_method" form:"metodo_pago" binding:"required"`
}

// Confirmation est la vue renvoyée après commande : commande, facture et lignes
type Confirmation struct {
	Order         Order       `json:"order"`
	InvoiceNumber string      `json:"invoice_number"`
	Lines         []OrderLine `json:"lines"`
}

// OrderDetail est la vue admin d'une commande
type OrderDetail struct {
	Order Order       `json:"order"`
	Lines []OrderLine `json:"lines"`
}
