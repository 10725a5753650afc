package product

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invoice_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type stubCatalog struct {
	products []models.Product
}

func (s stubCatalog) List(context.Context) ([]models.Product, error) {
	return s.products, nil
}

func (s stubCatalog) Search(_ context.Context, q string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func router(c Catalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := NewHandler(c, log)
	r := gin.New()
	r.GET("/Product", h.List)
	r.GET("/Product/Search", h.Search)
	return r
}

func TestProductSearch(t *testing.T) {
	r := router(stubCatalog{products: []models.Product{{ID: 1, Name: "Apple iPhone 16"}, {ID: 2, Name: "Xbox Series S"}}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/Product/Search?q=xbox", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Xbox Series S")
	assert.NotContains(t, w.Body.String(), "iPhone")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/Product/Search?q=toaster", nil))
	assert.JSONEq(t, `{"query":"toaster","products":[]}`, w.Body.String())
}

func TestProductList(t *testing.T) {
	r := router(stubCatalog{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/Product", nil))
	assert.JSONEq(t, `{"products":[]}`, w.Body.String())
}
