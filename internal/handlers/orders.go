package handlers

import (
	"net/http"

	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/session"
	"donpollo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// Checkout : aperçu du panier avant commande
func (h *Handler) Checkout(c *gin.Context) {
	ct, err := h.carts.Get(c.Request.Context(), session.ID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if ct.IsEmpty() {
		c.Redirect(http.StatusSeeOther, CatalogPath)
		return
	}
	c.JSON(http.StatusOK, cartJSON(ct))
}

// PlaceOrder transforme le panier de la session en commande facturée
func (h *Handler) PlaceOrder(c *gin.Context) {
	ctx := c.Request.Context()
	sid := session.ID(c)

	var customer models.Customer
	if err := c.ShouldBind(&customer); err != nil {
		// un panier vide renvoie au catalogue avant toute validation
		ct, cerr := h.carts.Get(ctx, sid)
		if cerr == nil && ct.IsEmpty() {
			c.Redirect(http.StatusSeeOther, CatalogPath)
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, téléphone, adresse et moyen de paiement sont requis"})
		return
	}

	conf, err := h.orders.Checkout(ctx, sid, customer)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", "/api/orders/"+conf.Order.OrderNumber)
	c.JSON(http.StatusCreated, gin.H{
		"order_number":   conf.Order.OrderNumber,
		"invoice_number": conf.InvoiceNumber,
		"total":          conf.Order.Total,
	})
}

func (h *Handler) GetConfirmation(c *gin.Context) {
	conf, err := h.orders.Confirmation(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}

// GetPickupQR renvoie le QR à présenter au comptoir
func (h *Handler) GetPickupQR(c *gin.Context) {
	conf, err := h.orders.Confirmation(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	png, err := utils.PickupQR(conf.Order.OrderNumber, conf.InvoiceNumber)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
