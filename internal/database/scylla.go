package database

import (
	"fmt"
	"time"

	"invoice_back_end/internal/config"

	"github.com/gocql/gocql"
)

// ConnectScylla ouvre la session ScyllaDB du journal d'audit et crée le schéma si besoin
func ConnectScylla(cfg config.ScyllaSettings) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = cfg.Timeout
	cluster.NumConns = 4
	cluster.ReconnectInterval = 1 * time.Second
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session ScyllaDB: %w", err)
	}

	if err := ensureAuditSchema(session, cfg.Keyspace); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

func ensureAuditSchema(session *gocql.Session, keyspace string) error {
	stmts := []string{
		fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
			WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`, keyspace),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.audit_logs (
			id timeuuid PRIMARY KEY,
			customer_id bigint,
			email text,
			action text,
			resource text,
			resource_id text,
			detail text,
			ip_address text,
			success boolean,
			error_msg text,
			timestamp timestamp
		)`, keyspace),
	}
	for _, stmt := range stmts {
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("schéma audit ScyllaDB: %w", err)
		}
	}
	return nil
}
