package database

import (
	"context"

	"invoice_back_end/internal/models"
)

const templateColumns = `id, name, html_content, template_type, created_date, created_by, update_date, update_by`

func (s *Store) ListTemplates(ctx context.Context) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *Store) GetTemplate(ctx context.Context, id int64) (*models.Template, error) {
	return scanTemplate(s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
}

// FirstTemplateByType retourne le premier modèle (plus petit id) du type donné
func (s *Store) FirstTemplateByType(ctx context.Context, tt models.TemplateType) (*models.Template, error) {
	return scanTemplate(s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE template_type = $1 ORDER BY id LIMIT 1`, int(tt)))
}

func (s *Store) CreateTemplate(ctx context.Context, t *models.Template) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO templates (name, html_content, template_type, created_date, created_by)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		t.Name, t.HTMLContent, int(t.TemplateType), t.CreatedDate, t.CreatedBy,
	).Scan(&t.ID)
	return translateErr(err)
}

func (s *Store) UpdateTemplate(ctx context.Context, t *models.Template) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE templates SET name = $1, html_content = $2, template_type = $3, update_date = $4, update_by = $5
		 WHERE id = $6`,
		t.Name, t.HTMLContent, int(t.TemplateType), t.UpdateDate, t.UpdateBy, t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTemplate(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var (
		t  models.Template
		tt int
	)
	if err := row.Scan(&t.ID, &t.Name, &t.HTMLContent, &tt, &t.CreatedDate, &t.CreatedBy, &t.UpdateDate, &t.UpdateBy); err != nil {
		return nil, translateErr(err)
	}
	t.TemplateType = models.TemplateType(tt)
	return &t, nil
}
