package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/cart"
	"donpollo_back_end/internal/models"

	"github.com/rs/zerolog"
)

// Repository persiste commandes, lignes, stock et factures.
// Create doit tout écrire dans une seule transaction.
type Repository interface {
	Create(ctx context.Context, order *models.Order, lines []models.OrderLine, invoice *models.Invoice) error
	FindByNumber(ctx context.Context, number string) (models.Confirmation, error)
	FindByID(ctx context.Context, id int64) (models.OrderDetail, error)
	List(ctx context.Context) ([]models.Order, error)
	ListInvoices(ctx context.Context) ([]models.InvoiceRow, error)
	Stats(ctx context.Context) (models.DashboardStats, error)
}

// PlacedHook est appelé après validation d'une commande (cache, notification)
type PlacedHook func(ctx context.Context, c models.Confirmation)

type Processor struct {
	repo  Repository
	carts cart.Store
	now   func() time.Time
	hooks []PlacedHook
	log   zerolog.Logger
}

type Option func(*Processor)

func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

func WithHooks(hooks ...PlacedHook) Option {
	return func(p *Processor) { p.hooks = append(p.hooks, hooks...) }
}

func NewProcessor(repo Repository, carts cart.Store, log zerolog.Logger, opts ...Option) *Processor {
	p := &Processor{
		repo:  repo,
		carts: carts,
		now:   time.Now,
		log:   log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Place transforme un panier non vide en commande + lignes + facture.
// Le total est celui du panier (prix capturés à l'ajout).
func (p *Processor) Place(ctx context.Context, c *cart.Cart, customer models.Customer) (models.Confirmation, error) {
	if c.IsEmpty() {
		return models.Confirmation{}, apperr.ErrEmptyCart
	}

	customer, err := normalizeCustomer(customer)
	if err != nil {
		return models.Confirmation{}, err
	}

	now := p.now()
	order := models.Order{
		OrderNumber:     Number(OrderPrefix, now),
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		PaymentMethod:   customer.PaymentMethod,
		Total:           c.Total(),
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
	}

	lines := make([]models.OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, models.OrderLine{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			Subtotal:    item.Subtotal(),
		})
	}

	invoice := models.Invoice{
		InvoiceNumber: Number(InvoicePrefix, now),
		CreatedAt:     now,
	}

	if err := p.repo.Create(ctx, &order, lines, &invoice); err != nil {
		return models.Confirmation{}, err
	}

	return models.Confirmation{
		Order:         order,
		InvoiceNumber: invoice.InvoiceNumber,
		Lines:         lines,
	}, nil
}

// Checkout passe la commande du panier de la session puis vide ce panier
func (p *Processor) Checkout(ctx context.Context, sessionID string, customer models.Customer) (models.Confirmation, error) {
	c, err := p.carts.Load(ctx, sessionID)
	if err != nil {
		return models.Confirmation{}, err
	}

	conf, err := p.Place(ctx, c, customer)
	if err != nil {
		if !errors.Is(err, apperr.ErrEmptyCart) {
			p.log.Warn().Err(err).Str("session_id", sessionID).Msg("❌ Échec du passage de commande")
		}
		var missing *apperr.MissingProductError
		if errors.As(err, &missing) {
			p.dropMissing(ctx, sessionID, c, missing.ProductID)
		}
		return models.Confirmation{}, err
	}

	// la commande est déjà validée : un échec ici ne doit pas la faire rejouer
	if err := p.carts.Clear(ctx, sessionID); err != nil {
		p.log.Error().Err(err).Str("session_id", sessionID).Msg("⚠️ Panier non vidé après commande")
	}

	p.log.Info().
		Str("order_number", conf.Order.OrderNumber).
		Str("invoice_number", conf.InvoiceNumber).
		Str("total", conf.Order.Total.String()).
		Int("lines", len(conf.Lines)).
		Msg("✅ Commande créée")

	for _, hook := range p.hooks {
		hook(ctx, conf)
	}
	return conf, nil
}

// dropMissing retire du panier la ligne d'un produit supprimé ; le client peut renvoyer sa commande
func (p *Processor) dropMissing(ctx context.Context, sessionID string, c *cart.Cart, productID int64) {
	if !c.Remove(productID) {
		return
	}
	if err := p.carts.Save(ctx, sessionID, c); err != nil {
		p.log.Error().Err(err).Str("session_id", sessionID).Msg("⚠️ Ligne orpheline non retirée du panier")
		return
	}
	p.log.Info().Int64("product_id", productID).Str("session_id", sessionID).Msg("🧹 Produit supprimé retiré du panier")
}

// Confirmation retrouve une commande par son numéro (apperr.ErrNotFound sinon)
func (p *Processor) Confirmation(ctx context.Context, orderNumber string) (models.Confirmation, error) {
	return p.repo.FindByNumber(ctx, strings.TrimSpace(orderNumber))
}

func (p *Processor) Orders(ctx context.Context) ([]models.Order, error) {
	return p.repo.List(ctx)
}

func (p *Processor) OrderDetail(ctx context.Context, id int64) (models.OrderDetail, error) {
	return p.repo.FindByID(ctx, id)
}

func (p *Processor) Invoices(ctx context.Context) ([]models.InvoiceRow, error) {
	return p.repo.ListInvoices(ctx)
}

func (p *Processor) Stats(ctx context.Context) (models.DashboardStats, error) {
	return p.repo.Stats(ctx)
}

func normalizeCustomer(c models.Customer) (models.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.PaymentMethod = strings.TrimSpace(c.PaymentMethod)

	switch {
	case c.Name == "":
		return c, apperr.Invalid("name", "requis")
	case c.Phone == "":
		return c, apperr.Invalid("phone", "requis")
	case c.Address == "":
		return c, apperr.Invalid("address", "requis")
	case c.PaymentMethod == "":
		return c, apperr.Invalid("payment_method", "requis")
	}
	return c, nil
}
