// Package handlers expose la boutique et l'espace admin en HTTP.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"donpollo_back_end/internal/admin"
	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/cart"
	"donpollo_back_end/internal/catalog"
	"donpollo_back_end/internal/middleware"
	"donpollo_back_end/internal/orders"
	"donpollo_back_end/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CatalogPath reçoit les paniers vides renvoyés par le checkout
const CatalogPath = "/api/products"

type Handler struct {
	catalog  *catalog.Service
	carts    *cart.Service
	orders   *orders.Processor
	admin    *admin.Service
	sessions *session.Manager
	log      zerolog.Logger
	shopName string
	now      func() time.Time
}

type Deps struct {
	Catalog  *catalog.Service
	Carts    *cart.Service
	Orders   *orders.Processor
	Admin    *admin.Service
	Sessions *session.Manager
	Log      zerolog.Logger
	ShopName string
}

func New(d Deps) *Handler {
	return &Handler{
		catalog:  d.Catalog,
		carts:    d.Carts,
		orders:   d.Orders,
		admin:    d.Admin,
		sessions: d.Sessions,
		log:      d.Log,
		shopName: d.ShopName,
		now:      time.Now,
	}
}

// respondError traduit les erreurs métier en réponse HTTP
func (h *Handler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *apperr.ValidationError
	var missing *apperr.MissingProductError
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusConflict, gin.H{
			"error":      missing.Error() + ", retiré du panier",
			"product_id": missing.ProductID,
		})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": verr.Field})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": apperr.ErrNotFound.Error()})
	case errors.Is(err, apperr.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": apperr.ErrInsufficientStock.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Commande simultanée, veuillez réessayer"})
	case errors.Is(err, apperr.ErrAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperr.ErrAuth.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperr.ErrUnauthorized.Error(), "login": middleware.LoginPath})
	case errors.Is(err, apperr.ErrEmptyCart):
		c.Redirect(http.StatusSeeOther, CatalogPath)
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("❌ Erreur interne")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne du serveur"})
	}
}

func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(name, "identifiant invalide")
	}
	return id, nil
}
