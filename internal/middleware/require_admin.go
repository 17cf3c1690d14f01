package middleware

import (
	"net/http"

	"donpollo_back_end/internal/session"

	"github.com/gin-gonic/gin"
)

// LoginPath est renvoyé aux clients refoulés pour qu'ils sachent où s'authentifier
const LoginPath = "/api/admin/login"

// AdminUserKey porte le nom de l'admin authentifié dans le contexte gin
const AdminUserKey = "admin_user"

// RequireAdmin vérifie le drapeau admin de la session et expose le nom de l'admin aux handlers
func RequireAdmin(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Accès réservé aux administrateurs",
				"login": LoginPath,
			})
			return
		}
		c.Set(AdminUserKey, sessions.AdminUser(c))
		c.Next()
	}
}
