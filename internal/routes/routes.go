package routes

import (
	"net/http"
	"time"

	"donpollo_back_end/internal/handlers"
	"donpollo_back_end/internal/middleware"
	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/services"
	"donpollo_back_end/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Options struct {
	Sessions    *session.Manager
	Auditor     services.Auditor
	Redis       *redis.Client // nil : pas de limitation des connexions
	CORSOrigins []string
	Log         zerolog.Logger
}

// NewRouter monte toutes les routes de la boutique
func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Log))

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", opts.Sessions.Middleware())
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)

		api.GET("/cart", h.GetCart)
		api.POST("/cart/items/:productId", h.AddToCart)
		api.PUT("/cart/items/:productId", h.UpdateCartItem)
		api.DELETE("/cart/items/:productId", h.RemoveCartItem)

		api.GET("/checkout", h.Checkout)
		api.POST("/orders", h.PlaceOrder)
		api.GET("/orders/:orderNumber", h.GetConfirmation)
		api.GET("/orders/:orderNumber/qr", h.GetPickupQR)
	}

	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.AuditAction(opts.Auditor, action, resource)
	}

	adm := api.Group("/admin")
	adm.POST("/login", middleware.LoginRateLimit(opts.Redis, opts.Log), middleware.AuditLogin(opts.Auditor), h.Login)

	protected := adm.Group("", middleware.RequireAdmin(opts.Sessions))
	{
		protected.POST("/logout", audit(models.ActionLogout, models.ResourceAuth), h.Logout)
		protected.GET("/dashboard", h.Dashboard)

		protected.GET("/products", h.AdminListProducts)
		protected.POST("/products", audit(models.ActionProductCreate, models.ResourceProduct), h.CreateProduct)
		protected.GET("/products/:id", h.GetProduct)
		protected.PUT("/products/:id", audit(models.ActionProductUpdate, models.ResourceProduct), h.UpdateProduct)
		protected.DELETE("/products/:id", audit(models.ActionProductDelete, models.ResourceProduct), h.DeleteProduct)
		protected.POST("/products/:id/image", audit(models.ActionProductImage, models.ResourceProduct), h.UploadProductImage)

		protected.GET("/orders", h.AdminListOrders)
		protected.GET("/orders/:id", h.AdminGetOrder)

		protected.GET("/invoices", h.AdminListInvoices)
		protected.GET("/invoices/report.pdf", audit(models.ActionReportExport, models.ResourceInvoice), h.InvoiceReport)
	}

	return r
}
