package repositories

import (
	"context"
	"fmt"

	"github.com/campusflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdsTemplateRepo struct {
	pool *pgxpool.Pool
}

func NewAdsTemplateRepo(pool *pgxpool.Pool) *AdsTemplateRepo {
	return &AdsTemplateRepo{pool: pool}
}

const templateColumns = `
	id, name, template_type, campaign_id, headline, body_copy, call_to_action,
	cta_url, image_url, tags, language, status, version, usage_count, last_used_at,
	created_by, created_at, updated_at
`

func scanTemplate(row interface{ Scan(...any) error }, t *models.AdsTemplate) error {
	return row.Scan(&t.ID, &t.Name, &t.TemplateType, &t.CampaignID, &t.Headline, &t.BodyCopy, &t.CallToAction,
		&t.CTAURL, &t.ImageURL, &t.Tags, &t.Language, &t.Status, &t.Version, &t.UsageCount, &t.LastUsedAt,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
}

func (r *AdsTemplateRepo) Create(ctx context.Context, t *models.AdsTemplate) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO ads_templates (name, template_type, campaign_id, headline, body_copy, call_to_action,
		                           cta_url, image_url, tags, language, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, version, usage_count, created_at, updated_at
	`, t.Name, t.TemplateType, t.CampaignID, t.Headline, t.BodyCopy, t.CallToAction,
		t.CTAURL, t.ImageURL, t.Tags, t.Language, t.Status, t.CreatedBy,
	).Scan(&t.ID, &t.Version, &t.UsageCount, &t.CreatedAt, &t.UpdatedAt)
}

func (r *AdsTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AdsTemplate, error) {
	var t models.AdsTemplate
	row := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM ads_templates WHERE id = $1`, id)
	if err := scanTemplate(row, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

type AdsTemplateFilter struct {
	CampaignID   *uuid.UUID
	TemplateType *string
	Status       *string
	Language     *string
	Limit        int
	Offset       int
}

func (r *AdsTemplateRepo) List(ctx context.Context, f AdsTemplateFilter) ([]models.AdsTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM ads_templates`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.TemplateType != nil {
		where = append(where, fmt.Sprintf("template_type = $%d", argIdx))
		args = append(args, *f.TemplateType)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.Language != nil {
		where = append(where, fmt.Sprintf("language = $%d", argIdx))
		args = append(args, *f.Language)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.AdsTemplate
	for rows.Next() {
		var t models.AdsTemplate
		if err := scanTemplate(rows, &t); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func (r *AdsTemplateRepo) Update(ctx context.Context, t *models.AdsTemplate) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE ads_templates SET name = $1, template_type = $2, campaign_id = $3, headline = $4,
		       body_copy = $5, call_to_action = $6, cta_url = $7, image_url = $8,
		       tags = $9, language = $10, updated_at = now()
		WHERE id = $11
	`, t.Name, t.TemplateType, t.CampaignID, t.Headline,
		t.BodyCopy, t.CallToAction, t.CTAURL, t.ImageURL,
		t.Tags, t.Language, t.ID)
	return err
}

func (r *AdsTemplateRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE ads_templates SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

// TrackUsage bumps the usage counter and stamps last use.
func (r *AdsTemplateRepo) TrackUsage(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE ads_templates SET usage_count = usage_count + 1, last_used_at = now(), updated_at = now()
		WHERE id = $1
	`, id)
	return err
}

func (r *AdsTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ads_templates WHERE id = $1`, id)
	return err
}
