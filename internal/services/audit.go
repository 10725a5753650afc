package services

import (
	"context"
	"time"

	"invoice_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/sirupsen/logrus"
)

// Actions d'audit
const (
	ActionRegister       = "auth.register"
	ActionLoginSuccess   = "auth.login_success"
	ActionLoginFailed    = "auth.login_failed"
	ActionOrderCreate    = "order.create"
	ActionPaymentProcess = "payment.process"
	ActionInvoiceSend    = "invoice.send"
	ActionTemplateCreate = "template.create"
	ActionTemplateUpdate = "template.update"
	ActionTemplateDelete = "template.delete"
)

// Ressources d'audit
const (
	ResourceCustomer = "customer"
	ResourceOrder    = "order"
	ResourcePayment  = "payment"
	ResourceTemplate = "template"
)

type Auditor interface {
	Record(ctx context.Context, entry models.AuditLog)
}

type ctxKey int

const clientIPKey ctxKey = iota

// WithClientIP attache l'IP du client au contexte pour l'audit
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// NopAuditor est utilisé quand ScyllaDB n'est pas configuré
type NopAuditor struct{}

func (NopAuditor) Record(context.Context, models.AuditLog) {}

// ScyllaAuditor écrit le journal d'audit dans ScyllaDB, en best-effort
type ScyllaAuditor struct {
	session  *gocql.Session
	keyspace string
	log      *logrus.Logger
}

func NewScyllaAuditor(session *gocql.Session, keyspace string, log *logrus.Logger) *ScyllaAuditor {
	return &ScyllaAuditor{session: session, keyspace: keyspace, log: log}
}

func (a *ScyllaAuditor) Record(ctx context.Context, entry models.AuditLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.ID = gocql.UUIDFromTime(entry.Timestamp)
	if entry.IPAddress == "" {
		entry.IPAddress = clientIP(ctx)
	}

	query := `INSERT INTO ` + a.keyspace + `.audit_logs (
			id, customer_id, email, action, resource, resource_id,
			detail, ip_address, success, error_msg, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err := a.session.Query(query,
		entry.ID, entry.CustomerID, entry.Email, entry.Action, entry.Resource, entry.ResourceID,
		entry.Detail, entry.IPAddress, entry.Success, entry.ErrorMsg, entry.Timestamp,
	).WithContext(ctx).Exec()
	if err != nil {
		a.log.WithError(err).WithField("action", entry.Action).Error("❌ Erreur enregistrement log audit")
	}
}

func auditEntry(who models.Identity, action, resource, resourceID string, err error) models.AuditLog {
	entry := models.AuditLog{
		CustomerID: who.CustomerID,
		Email:      who.Email,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Success:    err == nil,
	}
	if err != nil {
		entry.ErrorMsg = err.Error()
	}
	return entry
}
