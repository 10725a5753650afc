package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"invoice_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
)

const productIndex = "products"

// ElasticSearcher indexe et recherche le catalogue dans Elasticsearch
type ElasticSearcher struct {
	client *elasticsearch.Client
	log    *logrus.Logger
}

func NewElasticSearcher(client *elasticsearch.Client, log *logrus.Logger) *ElasticSearcher {
	return &ElasticSearcher{client: client, log: log}
}

// IndexProducts indexe le catalogue (au démarrage, après le seed)
func (e *ElasticSearcher) IndexProducts(ctx context.Context, products []models.Product) error {
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		req := esapi.IndexRequest{
			Index:      productIndex,
			DocumentID: strconv.FormatInt(p.ID, 10),
			Body:       bytes.NewReader(data),
			Refresh:    "true",
		}
		res, err := req.Do(ctx, e.client)
		if err != nil {
			return fmt.Errorf("erreur envoi Elastic: %w", err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("elastic a renvoyé une erreur pour %s: %s", p.Name, res.Status())
		}
	}
	e.log.WithField("count", len(products)).Info("✅ Catalogue indexé dans Elasticsearch")
	return nil
}

// Search recherche des produits par nom, catégorie ou description
func (e *ElasticSearcher) Search(ctx context.Context, query string) ([]models.Product, error) {
	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "category", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{productIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New("index non trouvé ou vide")
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %w", err)
	}

	products := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}
