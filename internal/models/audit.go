package models

import (
	"time"

	"github.com/gocql/gocql"
)

// AuditLog trace une action administrateur
type AuditLog struct {
	ID         gocql.UUID `json:"id"`
	Actor      string     `json:"actor"`
	Action     string     `json:"action"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resource_id,omitempty"`
	NewValue   string     `json:"new_value,omitempty"`
	IPAddress  string     `json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
	Success    bool       `json:"success"`
	ErrorMsg   string     `json:"error_msg,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	SessionID  string     `json:"session_id,omitempty"`
}

// Actions d'audit
const (
	ActionProductCreate = "product.create"
	ActionProductUpdate = "product.update"
	ActionProductDelete = "product.delete"
	ActionProductImage  = "product.image"
	ActionLoginSuccess  = "auth.login_success"
	ActionLoginFailed   = "auth.login_failed"
	ActionLogout        = "auth.logout"
	ActionReportExport  = "invoice.report"
)

const (
	ResourceProduct = "product"
	ResourceAuth    = "auth"
	ResourceInvoice = "invoice"
)
