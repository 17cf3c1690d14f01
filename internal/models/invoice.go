package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID            int64     `json:"id" db:"id"`
	OrderID       int64     `json:"order_id" db:"order_id"`
	InvoiceNumber string    `json:"invoice_number" db:"invoice_number"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// InvoiceRow est une facture jointe à sa commande (liste admin et rapport PDF)
type InvoiceRow struct {
	InvoiceNumber string          `json:"invoice_number"`
	OrderNumber   string          `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DashboardStats résume l'activité de la boutique
type DashboardStats struct {
	Products int64           `json:"products"`
	Orders   int64           `json:"orders"`
	Invoices int64           `json:"invoices"`
	Revenue  decimal.Decimal `json:"revenue"`
}
