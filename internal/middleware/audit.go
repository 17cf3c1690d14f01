package middleware

import (
	"net/http"

	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/services"
	"donpollo_back_end/internal/session"

	"github.com/gin-gonic/gin"
)

// AuditNewValueKey permet au handler de joindre la nouvelle valeur à l'entrée d'audit
const AuditNewValueKey = "audit_new_value"

// AuditAction enregistre l'action admin une fois la requête traitée, réussie ou non
func AuditAction(auditor services.Auditor, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		entry := baseEntry(c, action, resource)
		entry.Success = status >= 200 && status < 300
		if !entry.Success && len(c.Errors) > 0 {
			entry.ErrorMsg = c.Errors.Last().Error()
		}
		auditor.Record(c.Request.Context(), entry)
	}
}

// AuditLogin distingue les connexions réussies des échecs
func AuditLogin(auditor services.Auditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Writer.Status() {
		case http.StatusOK:
			entry := baseEntry(c, models.ActionLoginSuccess, models.ResourceAuth)
			entry.Success = true
			auditor.Record(c.Request.Context(), entry)
		case http.StatusUnauthorized:
			entry := baseEntry(c, models.ActionLoginFailed, models.ResourceAuth)
			entry.ErrorMsg = "identifiants invalides"
			auditor.Record(c.Request.Context(), entry)
		}
	}
}

func baseEntry(c *gin.Context, action, resource string) models.AuditLog {
	actor := c.GetString(AdminUserKey)
	if actor == "" {
		actor = "inconnu"
	}
	return models.AuditLog{
		Actor:      actor,
		Action:     action,
		Resource:   resource,
		ResourceID: c.Param("id"),
		NewValue:   c.GetString(AuditNewValueKey),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		SessionID:  session.ID(c),
	}
}
