package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"invoice_back_end/internal/database"
	"invoice_back_end/internal/models"

	"github.com/sirupsen/logrus"
)

const maxTemplateNameLength = 200

type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]models.Template, error)
	GetTemplate(ctx context.Context, id int64) (*models.Template, error)
	CreateTemplate(ctx context.Context, t *models.Template) error
	UpdateTemplate(ctx context.Context, t *models.Template) error
	DeleteTemplate(ctx context.Context, id int64) error
}

type TemplateInput struct {
	Name         string
	HTMLContent  string
	TemplateType models.TemplateType
}

func (in TemplateInput) validate() error {
	errs := fieldErrors{}
	errs.require("name", in.Name, "Template name is required.")
	if utf8.RuneCountInString(in.Name) > maxTemplateNameLength {
		errs["name"] = fmt.Sprintf("Template name must be at most %d characters.", maxTemplateNameLength)
	}
	errs.require("htmlContent", in.HTMLContent, "HTML content is required.")
	if !in.TemplateType.Valid() {
		errs["templateType"] = "Template type is required."
	}
	return errs.err()
}

type TemplateService struct {
	templates TemplateStore
	audit     Auditor
	log       *logrus.Logger
	now       func() time.Time
}

func NewTemplateService(templates TemplateStore, audit Auditor, log *logrus.Logger) *TemplateService {
	return &TemplateService{templates: templates, audit: audit, log: log, now: time.Now}
}

func (s *TemplateService) List(ctx context.Context) ([]models.Template, error) {
	return s.templates.ListTemplates(ctx)
}

func (s *TemplateService) Get(ctx context.Context, id int64) (*models.Template, error) {
	t, err := s.templates.GetTemplate(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *TemplateService) Create(ctx context.Context, who models.Identity, in TemplateInput) (*models.Template, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	t := &models.Template{
		Name:         strings.TrimSpace(in.Name),
		HTMLContent:  in.HTMLContent,
		TemplateType: in.TemplateType,
		CreatedDate:  s.now().UTC(),
		CreatedBy:    who.Name,
	}
	err := s.templates.CreateTemplate(ctx, t)
	s.audit.Record(ctx, auditEntry(who, ActionTemplateCreate, ResourceTemplate, strconv.FormatInt(t.ID, 10), err))
	if err != nil {
		return nil, fmt.Errorf("création modèle: %w", err)
	}

	s.log.WithFields(logrus.Fields{"template_id": t.ID, "type": t.TemplateType.String()}).Info("📝 Modèle créé")
	return t, nil
}

// Update conserve la date et l'auteur de création
func (s *TemplateService) Update(ctx context.Context, who models.Identity, id int64, in TemplateInput) (*models.Template, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	by := who.Name
	t.Name = strings.TrimSpace(in.Name)
	t.HTMLContent = in.HTMLContent
	t.TemplateType = in.TemplateType
	t.UpdateDate = &now
	t.UpdateBy = &by

	err = s.templates.UpdateTemplate(ctx, t)
	s.audit.Record(ctx, auditEntry(who, ActionTemplateUpdate, ResourceTemplate, strconv.FormatInt(id, 10), err))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mise à jour modèle %d: %w", id, err)
	}

	s.log.WithField("template_id", id).Info("📝 Modèle mis à jour")
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, who models.Identity, id int64) error {
	err := s.templates.DeleteTemplate(ctx, id)
	s.audit.Record(ctx, auditEntry(who, ActionTemplateDelete, ResourceTemplate, strconv.FormatInt(id, 10), err))
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("suppression modèle %d: %w", id, err)
	}

	s.log.WithField("template_id", id).Info("🗑️ Modèle supprimé")
	return nil
}
