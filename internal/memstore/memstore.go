// Package memstore garde tout le magasin en mémoire : mode dev sans MySQL ni Redis, et tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"donpollo_back_end/internal/admin"
	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/cart"
	"donpollo_back_end/internal/catalog"
	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/orders"

	"github.com/shopspring/decimal"
)

var (
	_ catalog.Repository = (*Store)(nil)
	_ orders.Repository  = (*Store)(nil)
	_ admin.Repository   = (*Store)(nil)
	_ cart.Store         = (*Store)(nil)
)

type Store struct {
	mu sync.Mutex

	products    map[int64]models.Product
	nextProduct int64

	orders   []models.Order
	lines    []models.OrderLine
	invoices []models.Invoice

	admins map[string]models.AdminCredential
	carts  map[string][]models.CartItem
}

func New() *Store {
	return &Store{
		products: map[int64]models.Product{},
		admins:   map[string]models.AdminCredential{},
		carts:    map[string][]models.CartItem{},
	}
}

// Seed insère l'admin et les produits d'exemple si le catalogue est vide
func (s *Store) Seed(username, passwordHash string, products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[username]; !ok {
		s.admins[username] = models.AdminCredential{ID: int64(len(s.admins) + 1), Username: username, PasswordHash: passwordHash}
	}
	if len(s.products) > 0 {
		return
	}
	for _, p := range products {
		s.nextProduct++
		p.ID = s.nextProduct
		s.products[p.ID] = p
	}
}

// --- Catalogue ---

func (s *Store) ListAvailable(_ context.Context) ([]models.Product, error) {
	return s.filter(func(p models.Product) bool { return p.Stock > 0 }), nil
}

func (s *Store) SearchAvailable(_ context.Context, term string) ([]models.Product, error) {
	term = strings.ToLower(term)
	return s.filter(func(p models.Product) bool {
		return p.Stock > 0 &&
			(strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Description), term))
	}), nil
}

func (s *Store) ListAvailableByIDs(_ context.Context, ids []int64) ([]models.Product, error) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return s.filter(func(p models.Product) bool { return p.Stock > 0 && wanted[p.ID] }), nil
}

func (s *Store) ListAll(_ context.Context) ([]models.Product, error) {
	return s.filter(func(models.Product) bool { return true }), nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return p, fmt.Errorf("produit %d: %w", id, apperr.ErrNotFound)
	}
	return p, nil
}

func (s *Store) Insert(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProduct++
	p.ID = s.nextProduct
	s.products[p.ID] = *p
	return nil
}

func (s *Store) Update(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return fmt.Errorf("produit %d: %w", p.ID, apperr.ErrNotFound)
	}
	s.products[p.ID] = p
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("produit %d: %w", id, apperr.ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

func (s *Store) SetImage(_ context.Context, id int64, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("produit %d: %w", id, apperr.ErrNotFound)
	}
	p.Image = image
	s.products[id] = p
	return nil
}

func (s *Store) filter(keep func(models.Product) bool) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Product{}
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- Commandes ---

// Create vérifie tout avant d'écrire : soit tout est appliqué, soit rien
func (s *Store) Create(_ context.Context, order *models.Order, lines []models.OrderLine, invoice *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.OrderNumber == order.OrderNumber {
			return fmt.Errorf("commande %s: %w", order.OrderNumber, apperr.ErrConflict)
		}
	}
	for _, inv := range s.invoices {
		if inv.InvoiceNumber == invoice.InvoiceNumber {
			return fmt.Errorf("facture %s: %w", invoice.InvoiceNumber, apperr.ErrConflict)
		}
	}

	need := map[int64]int{}
	for _, l := range lines {
		need[l.ProductID] += l.Quantity
	}
	for _, l := range lines {
		p, ok := s.products[l.ProductID]
		if !ok {
			return &apperr.MissingProductError{ProductID: l.ProductID, Name: l.ProductName}
		}
		if p.Stock < need[l.ProductID] {
			return fmt.Errorf("produit %d: %w", l.ProductID, apperr.ErrInsufficientStock)
		}
	}

	order.ID = int64(len(s.orders) + 1)
	s.orders = append(s.orders, *order)

	for i := range lines {
		lines[i].ID = int64(len(s.lines) + 1)
		lines[i].OrderID = order.ID
		s.lines = append(s.lines, lines[i])

		p := s.products[lines[i].ProductID]
		p.Stock -= lines[i].Quantity
		s.products[p.ID] = p
	}

	invoice.ID = int64(len(s.invoices) + 1)
	invoice.OrderID = order.ID
	s.invoices = append(s.invoices, *invoice)
	return nil
}

func (s *Store) FindByNumber(_ context.Context, number string) (models.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.OrderNumber != number {
			continue
		}
		inv, ok := s.invoiceFor(o.ID)
		if !ok {
			break
		}
		return models.Confirmation{Order: o, InvoiceNumber: inv.InvoiceNumber, Lines: s.linesFor(o.ID)}, nil
	}
	return models.Confirmation{}, fmt.Errorf("commande %s: %w", number, apperr.ErrNotFound)
}

func (s *Store) FindByID(_ context.Context, id int64) (models.OrderDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			return models.OrderDetail{Order: o, Lines: s.linesFor(id)}, nil
		}
	}
	return models.OrderDetail{}, fmt.Errorf("commande %d: %w", id, apperr.ErrNotFound)
}

func (s *Store) List(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]models.Order{}, s.orders...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) ListInvoices(_ context.Context) ([]models.InvoiceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]models.InvoiceRow, 0, len(s.invoices))
	for i := len(s.invoices) - 1; i >= 0; i-- {
		inv := s.invoices[i]
		o := s.orders[inv.OrderID-1]
		rows = append(rows, models.InvoiceRow{
			InvoiceNumber: inv.InvoiceNumber,
			OrderNumber:   o.OrderNumber,
			CustomerName:  o.CustomerName,
			Total:         o.Total,
			CreatedAt:     inv.CreatedAt,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (s *Store) Stats(_ context.Context) (models.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revenue := decimal.Zero
	for _, o := range s.orders {
		revenue = revenue.Add(o.Total)
	}
	return models.DashboardStats{
		Products: int64(len(s.products)),
		Orders:   int64(len(s.orders)),
		Invoices: int64(len(s.invoices)),
		Revenue:  revenue,
	}, nil
}

func (s *Store) invoiceFor(orderID int64) (models.Invoice, bool) {
	for _, inv := range s.invoices {
		if inv.OrderID == orderID {
			return inv, true
		}
	}
	return models.Invoice{}, false
}

func (s *Store) linesFor(orderID int64) []models.OrderLine {
	out := []models.OrderLine{}
	for _, l := range s.lines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out
}

// --- Admin ---

func (s *Store) Credential(_ context.Context, username string) (models.AdminCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.admins[username]
	if !ok {
		return c, fmt.Errorf("admin %q: %w", username, apperr.ErrNotFound)
	}
	return c, nil
}

// --- Paniers ---

func (s *Store) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &cart.Cart{Items: append([]models.CartItem{}, s.carts[sessionID]...)}, nil
}

func (s *Store) Save(_ context.Context, sessionID string, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.IsEmpty() {
		delete(s.carts, sessionID)
		return nil
	}
	s.carts[sessionID] = append([]models.CartItem{}, c.Items...)
	return nil
}

func (s *Store) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}
