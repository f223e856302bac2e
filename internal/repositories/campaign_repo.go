package repositories

import (
	"context"
	"fmt"

	"github.com/campusflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `
	id, name, campaign_type, status, start_date, end_date, budget,
	target_leads, target_enrollments,
	utm_source, utm_medium, utm_campaign, utm_term, utm_content,
	created_by, created_at, updated_at
`

func scanCampaign(row interface{ Scan(...any) error }, c *models.Campaign) error {
	return row.Scan(&c.ID, &c.Name, &c.CampaignType, &c.Status, &c.StartDate, &c.EndDate, &c.Budget,
		&c.TargetLeads, &c.TargetEnrollments,
		&c.UTMSource, &c.UTMMedium, &c.UTMCampaign, &c.UTMTerm, &c.UTMContent,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (name, campaign_type, status, start_date, end_date, budget,
		                       target_leads, target_enrollments,
		                       utm_source, utm_medium, utm_campaign, utm_term, utm_content, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, c.Name, c.CampaignType, c.Status, c.StartDate, c.EndDate, c.Budget,
		c.TargetLeads, c.TargetEnrollments,
		c.UTMSource, c.UTMMedium, c.UTMCampaign, c.UTMTerm, c.UTMContent, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	if err := scanCampaign(row, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

type CampaignFilter struct {
	Status       *string
	CampaignType *string
	CreatedBy    *uuid.UUID
	Limit        int
	Offset       int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.CampaignType != nil {
		where = append(where, fmt.Sprintf("campaign_type = $%d", argIdx))
		args = append(args, *f.CampaignType)
		argIdx++
	}
	if f.CreatedBy != nil {
		where = append(where, fmt.Sprintf("created_by = $%d", argIdx))
		args = append(args, *f.CreatedBy)
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

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET name = $1, campaign_type = $2, start_date = $3, end_date = $4, budget = $5,
		       target_leads = $6, target_enrollments = $7,
		       utm_source = $8, utm_medium = $9, utm_campaign = $10, utm_term = $11, utm_content = $12,
		       updated_at = now()
		WHERE id = $13
	`, c.Name, c.CampaignType, c.StartDate, c.EndDate, c.Budget,
		c.TargetLeads, c.TargetEnrollments,
		c.UTMSource, c.UTMMedium, c.UTMCampaign, c.UTMTerm, c.UTMContent, c.ID)
	return err
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE campaigns SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

// ListActivePastEnd returns active campaigns whose end date has passed; the
// worker moves them to completed.
func (r *CampaignRepo) ListActivePastEnd(ctx context.Context) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = 'active' AND end_date IS NOT NULL AND end_date < now()
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

func (r *CampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	return err
}
