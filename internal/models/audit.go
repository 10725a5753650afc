package models

import (
	"time"

	"github.com/gocql/gocql"
)

// AuditLog représente une entrée du journal d'audit (ScyllaDB)
type AuditLog struct {
	ID         gocql.UUID `json:"id"`
	CustomerID int64      `json:"customer_id"`
	Email      string     `json:"email"`
	Action     string     `json:"action"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resource_id,omitempty"`
	Detail     string     `json:"detail,omitempty"`
	IPAddress  string     `json:"ip_address"`
	Success    bool       `json:"success"`
	ErrorMsg   string     `json:"error_msg,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}
