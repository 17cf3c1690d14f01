package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"donpollo_back_end/internal/middleware"
	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/report"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Login(c *gin.Context) {
	var in models.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Utilisateur et mot de passe requis"})
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	c.Set(middleware.AdminUserKey, in.Username)

	if err := h.admin.Authenticate(c.Request.Context(), in.Username, in.Password); err != nil {
		// un échec révoque une session déjà privilégiée
		if serr := h.sessions.SetAdmin(c, ""); serr != nil {
			h.log.Error().Err(serr).Msg("❌ Révocation de session échouée")
		}
		h.respondError(c, err)
		return
	}
	if err := h.sessions.SetAdmin(c, in.Username); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Connexion réussie"})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.SetAdmin(c, ""); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- Produits ---

func (h *Handler) AdminListProducts(c *gin.Context) {
	products, err := h.catalog.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, prix et stock sont requis"})
		return
	}
	p, err := h.catalog.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	auditValue(c, p)
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, prix et stock sont requis"})
		return
	}
	p, err := h.catalog.Update(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	auditValue(c, p)
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UploadProductImage(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' requis"})
		return
	}
	p, err := h.catalog.UploadImage(c.Request.Context(), id, file)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Set(middleware.AuditNewValueKey, p.Image)
	c.JSON(http.StatusOK, p)
}

// --- Commandes & factures ---

func (h *Handler) AdminListOrders(c *gin.Context) {
	list, err := h.orders.Orders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	detail, err := h.orders.OrderDetail(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) AdminListInvoices(c *gin.Context) {
	rows, err := h.orders.Invoices(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": rows})
}

// InvoiceReport télécharge toutes les factures en PDF
func (h *Handler) InvoiceReport(c *gin.Context) {
	rows, err := h.orders.Invoices(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := report.InvoiceReport(&buf, h.shopName, rows, now); err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+report.Filename(now))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func auditValue(c *gin.Context, p models.Product) {
	if raw, err := json.Marshal(p); err == nil {
		c.Set(middleware.AuditNewValueKey, string(raw))
	}
}
