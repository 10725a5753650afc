package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"invoice_back_end/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const ProductCacheTTL = 10 * time.Minute

const productListKey = "products:all"

type ProductSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// ProductCache met en cache le catalogue dans Redis devant le store PostgreSQL.
// Sans client Redis il délègue directement au store.
type ProductCache struct {
	redis  *redis.Client
	source ProductSource
	ttl    time.Duration
	log    *logrus.Logger
}

func NewProductCache(client *redis.Client, source ProductSource, log *logrus.Logger) *ProductCache {
	return &ProductCache{redis: client, source: source, ttl: ProductCacheTTL, log: log}
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

// GetProduct récupère un produit depuis Redis ou PostgreSQL
func (c *ProductCache) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if c.redis == nil {
		return c.source.GetProduct(ctx, id)
	}

	// 1. Essayer le cache Redis
	data, err := c.redis.Get(ctx, productKey(id)).Bytes()
	if err == nil {
		var p models.Product
		if json.Unmarshal(data, &p) == nil {
			return &p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.log.WithError(err).Warn("⚠️ Lecture cache produit échouée")
	}

	// 2. Récupérer depuis PostgreSQL
	p, err := c.source.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	if payload, err := json.Marshal(p); err == nil {
		if err := c.redis.Set(ctx, productKey(id), payload, c.ttl).Err(); err != nil {
			c.log.WithError(err).Warn("⚠️ Écriture cache produit échouée")
		}
	}
	return p, nil
}

// ListProducts récupère le catalogue complet depuis Redis ou PostgreSQL
func (c *ProductCache) ListProducts(ctx context.Context) ([]models.Product, error) {
	if c.redis == nil {
		return c.source.ListProducts(ctx)
	}

	data, err := c.redis.Get(ctx, productListKey).Bytes()
	if err == nil {
		var products []models.Product
		if json.Unmarshal(data, &products) == nil {
			return products, nil
		}
	}

	products, err := c.source.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(products); err == nil {
		c.redis.Set(ctx, productListKey, payload, c.ttl)
	}
	return products, nil
}
