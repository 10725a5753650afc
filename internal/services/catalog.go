package services

import (
	"context"
	"errors"
	"strings"

	"invoice_back_end/internal/database"
	"invoice_back_end/internal/models"

	"github.com/sirupsen/logrus"
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type ProductSearcher interface {
	Search(ctx context.Context, query string) ([]models.Product, error)
}

type CatalogService struct {
	products ProductStore
	searcher ProductSearcher
	log      *logrus.Logger
}

// NewCatalogService : searcher peut être nil, la recherche filtre alors le catalogue en mémoire
func NewCatalogService(products ProductStore, searcher ProductSearcher, log *logrus.Logger) *CatalogService {
	return &CatalogService{products: products, searcher: searcher, log: log}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}

	if s.searcher != nil {
		products, err := s.searcher.Search(ctx, query)
		if err == nil {
			return products, nil
		}
		s.log.WithError(err).Warn("⚠️ Recherche Elasticsearch échouée, repli sur PostgreSQL")
	}

	all, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	var out []models.Product
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}
