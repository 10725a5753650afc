package templates

import (
	"context"
	"net/http"

	"invoice_back_end/internal/handlers"
	"invoice_back_end/internal/middleware"
	"invoice_back_end/internal/models"
	"invoice_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TemplateService interface {
	List(ctx context.Context) ([]models.Template, error)
	Get(ctx context.Context, id int64) (*models.Template, error)
	Create(ctx context.Context, who models.Identity, in services.TemplateInput) (*models.Template, error)
	Update(ctx context.Context, who models.Identity, id int64, in services.TemplateInput) (*models.Template, error)
	Delete(ctx context.Context, who models.Identity, id int64) error
}

type Handler struct {
	templates TemplateService
	log       *logrus.Logger
}

func NewHandler(templates TemplateService, log *logrus.Logger) *Handler {
	return &Handler{templates: templates, log: log}
}

type templateForm struct {
	Name         string `form:"name" json:"name" binding:"required,max=200"`
	HTMLContent  string `form:"htmlContent" json:"htmlContent" binding:"required"`
	TemplateType int    `form:"templateType" json:"templateType" binding:"required"`
}

func (f templateForm) input() services.TemplateInput {
	return services.TemplateInput{
		Name:         f.Name,
		HTMLContent:  f.HTMLContent,
		TemplateType: models.TemplateType(f.TemplateType),
	}
}

type typeOption struct {
	Value int    `json:"value"`
	Name  string `json:"name"`
}

func typeOptions() []typeOption {
	types := models.TemplateTypes()
	out := make([]typeOption, 0, len(types))
	for _, t := range types {
		out = append(out, typeOption{Value: int(t), Name: t.String()})
	}
	return out
}

func identity(c *gin.Context) models.Identity {
	who, _ := middleware.CurrentIdentity(c)
	return who
}

// GET /Template
func (h *Handler) Index(c *gin.Context) {
	list, err := h.templates.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	if list == nil {
		list = []models.Template{}
	}
	c.JSON(http.StatusOK, gin.H{"templates": list})
}

// GET /Template/Create
func (h *Handler) CreateForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templateTypes": typeOptions(), "placeholders": services.InvoicePlaceholders()})
}

// POST /Template/Create
func (h *Handler) Create(c *gin.Context) {
	var form templateForm
	if err := c.ShouldBind(&form); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	t, err := h.templates.Create(c.Request.Context(), identity(c), form.input())
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": t, "redirect": "/Template"})
}

// GET /Template/Edit/:id
func (h *Handler) EditForm(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	t, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"template":      t,
		"templateTypes": typeOptions(),
		"placeholders":  services.InvoicePlaceholders(),
	})
}

// POST /Template/Edit/:id
func (h *Handler) Edit(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	var form templateForm
	if err := c.ShouldBind(&form); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	t, err := h.templates.Update(c.Request.Context(), identity(c), id, form.input())
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t, "redirect": "/Template"})
}

// GET /Template/Delete/:id : données de confirmation
func (h *Handler) DeleteConfirm(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	t, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t, "confirm": true})
}

// POST /Template/Delete/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.templates.Delete(c.Request.Context(), identity(c), id); err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id, "redirect": "/Template"})
}
