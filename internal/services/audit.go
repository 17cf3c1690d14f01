package services

import (
	"context"
	"time"

	"donpollo_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog"
)

// Auditor enregistre les actions administrateur
type Auditor interface {
	Record(ctx context.Context, entry models.AuditLog)
}

const insertAuditCQL = `
	INSERT INTO audit_logs (
		id, actor, action, resource, resource_id, new_value,
		ip_address, user_agent, success, error_msg, timestamp, session_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ScyllaAuditor écrit dans ScyllaDB de façon asynchrone ; un échec est journalisé, jamais remonté
type ScyllaAuditor struct {
	session *gocql.Session
	log     zerolog.Logger
	timeout time.Duration
}

func NewScyllaAuditor(session *gocql.Session, log zerolog.Logger) *ScyllaAuditor {
	return &ScyllaAuditor{session: session, log: log, timeout: 5 * time.Second}
}

func (a *ScyllaAuditor) Record(_ context.Context, entry models.AuditLog) {
	entry = stamp(entry)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		err := a.session.Query(insertAuditCQL,
			entry.ID, entry.Actor, entry.Action, entry.Resource, entry.ResourceID, entry.NewValue,
			entry.IPAddress, entry.UserAgent, entry.Success, entry.ErrorMsg, entry.Timestamp, entry.SessionID,
		).WithContext(ctx).Exec()
		if err != nil {
			a.log.Error().Err(err).Str("action", entry.Action).Msg("❌ Erreur enregistrement log audit")
		}
	}()
}

// LogAuditor est le repli quand ScyllaDB n'est pas configuré
type LogAuditor struct {
	log zerolog.Logger
}

func NewLogAuditor(log zerolog.Logger) *LogAuditor {
	return &LogAuditor{log: log}
}

func (a *LogAuditor) Record(_ context.Context, entry models.AuditLog) {
	entry = stamp(entry)
	ev := a.log.Info()
	if !entry.Success {
		ev = a.log.Warn()
	}
	ev.Str("audit_id", entry.ID.String()).
		Str("actor", entry.Actor).
		Str("action", entry.Action).
		Str("resource", entry.Resource).
		Str("resource_id", entry.ResourceID).
		Str("ip", entry.IPAddress).
		Bool("success", entry.Success).
		Str("error", entry.ErrorMsg).
		Msg("📝 audit")
}

func stamp(entry models.AuditLog) models.AuditLog {
	var zero gocql.UUID
	if entry.ID == zero {
		entry.ID = gocql.TimeUUID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return entry
}
