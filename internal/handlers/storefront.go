package handlers

import (
	"net/http"

	"donpollo_back_end/internal/cart"
	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/session"

	"github.com/gin-gonic/gin"
)

// ListProducts : vitrine publique, ?q= ou ?buscar= pour filtrer
func (h *Handler) ListProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		query = c.Query("buscar")
	}

	products, err := h.catalog.List(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "query": query})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func cartJSON(ct *cart.Cart) gin.H {
	items := ct.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return gin.H{
		"items": items,
		"total": ct.Total(),
		"count": ct.Count(),
	}
}

func (h *Handler) GetCart(c *gin.Context) {
	ct, err := h.carts.Get(c.Request.Context(), session.ID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(ct))
}

// AddToCart ajoute une unité ; produit inconnu ou épuisé : panier inchangé
func (h *Handler) AddToCart(c *gin.Context) {
	id, err := parseID(c, "productId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	ct, err := h.carts.Add(c.Request.Context(), session.ID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(ct))
}

type quantityInput struct {
	Quantity *int `json:"quantity" form:"cantidad" binding:"required"`
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, err := parseID(c, "productId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var in quantityInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité requise"})
		return
	}
	ct, err := h.carts.SetQuantity(c.Request.Context(), session.ID(c), id, *in.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(ct))
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, err := parseID(c, "productId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	ct, err := h.carts.Remove(c.Request.Context(), session.ID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(ct))
}
