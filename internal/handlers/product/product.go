package product

import (
	"context"
	"net/http"

	"invoice_back_end/internal/handlers"
	"invoice_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Catalog interface {
	List(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
}

type Handler struct {
	catalog Catalog
	log     *logrus.Logger
}

func NewHandler(catalog Catalog, log *logrus.Logger) *Handler {
	return &Handler{catalog: catalog, log: log}
}

// GET /Product
func (h *Handler) List(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": nonNil(products)})
}

// GET /Product/Search?q=
func (h *Handler) Search(c *gin.Context) {
	q := c.Query("q")
	products, err := h.catalog.Search(c.Request.Context(), q)
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "products": nonNil(products)})
}

func nonNil(p []models.Product) []models.Product {
	if p == nil {
		return []models.Product{}
	}
	return p
}
