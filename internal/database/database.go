package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"invoice_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Connections regroupe les clients externes. Seul Postgres est obligatoire,
// les autres restent nil quand ils ne sont pas configurés.
type Connections struct {
	Postgres *sql.DB
	Scylla   *gocql.Session
	Redis    *redis.Client
	Elastic  *elasticsearch.Client
	MinIO    *minio.Client
}

// --- Initialisation ---
func ConnectDatabases(ctx context.Context, cfg config.Settings, log *logrus.Logger) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conns := &Connections{}

	// 1. PostgreSQL (store relationnel)
	db, err := connectPostgres(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	conns.Postgres = db

	// 2. ScyllaDB (journal d'audit)
	if len(cfg.Scylla.Hosts) > 0 {
		session, err := ConnectScylla(cfg.Scylla)
		if err != nil {
			log.WithError(err).Warn("⚠️ ScyllaDB indisponible, audit désactivé")
		} else {
			conns.Scylla = session
			log.WithField("keyspace", cfg.Scylla.Keyspace).Info("✅ Connecté à ScyllaDB")
		}
	} else {
		log.Warn("⚠️ SCYLLA_HOSTS non configuré, audit désactivé")
	}

	// 3. Redis
	if cfg.Redis.Host != "" {
		conns.Redis = connectRedis(ctx, cfg.Redis, log)
	} else {
		log.Warn("⚠️ REDIS_HOST non configuré, cache et rate limit désactivés")
	}

	// 4. Elasticsearch
	if cfg.Elastic.URL != "" {
		conns.Elastic = connectElastic(cfg.Elastic, log)
	} else {
		log.Warn("⚠️ ELASTIC_URL non configuré, recherche via PostgreSQL")
	}

	// 5. MinIO
	if cfg.MinIO.Endpoint != "" {
		conns.MinIO = connectMinIO(ctx, cfg.MinIO, log)
	} else {
		log.Warn("⚠️ MINIO_ENDPOINT non configuré, archivage des factures désactivé")
	}

	log.Info("✅ Connexions initialisées")
	return conns, nil
}

// Close ferme toutes les connexions ouvertes
func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Postgres != nil {
		_ = c.Postgres.Close()
	}
}

// =============================================
// POSTGRESQL
// =============================================
func connectPostgres(ctx context.Context, dsn string, log *logrus.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("ouverture PostgreSQL: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Attendre que la base soit prête
	for {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		log.WithError(err).Info("⏳ En attente de PostgreSQL...")
		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("connexion PostgreSQL: %w", err)
		case <-time.After(2 * time.Second):
		}
	}

	log.Info("✅ Connecté à PostgreSQL")
	return db, nil
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg config.RedisSettings, log *logrus.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host,
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("⚠️ Erreur connexion Redis, cache désactivé")
		_ = client.Close()
		return nil
	}
	log.Info("✅ Connecté à Redis")
	return client
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg config.ElasticSettings, log *logrus.Logger) *elasticsearch.Client {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		log.WithError(err).Warn("⚠️ Erreur création client Elasticsearch")
		return nil
	}

	res, err := client.Info()
	if err != nil {
		log.WithError(err).Warn("⚠️ Erreur connexion Elasticsearch")
		return nil
	}
	defer res.Body.Close()

	log.Info("✅ Connecté à Elasticsearch")
	return client
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context, cfg config.MinIOSettings, log *logrus.Logger) *minio.Client {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.WithError(err).Warn("⚠️ Erreur connexion MinIO")
		return nil
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		log.WithError(err).Warn("⚠️ Erreur vérification bucket MinIO")
		return nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			log.WithError(err).Warn("⚠️ Erreur création bucket MinIO")
			return nil
		}
		log.WithField("bucket", cfg.Bucket).Info("🪣 Bucket créé")
	}

	log.WithField("endpoint", cfg.Endpoint).Info("✅ Connecté à MinIO")
	return client
}
