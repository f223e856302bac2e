package repositories

import (
	"context"
	"fmt"

	"github.com/campusflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeadRepo struct {
	pool *pgxpool.Pool
}

func NewLeadRepo(pool *pgxpool.Pool) *LeadRepo {
	return &LeadRepo{pool: pool}
}

func (r *LeadRepo) Create(ctx context.Context, l *models.Lead) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO leads (full_name, email, phone, campaign_id, status, source, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, l.FullName, l.Email, l.Phone, l.CampaignID, l.Status, l.Source, l.Notes, l.CreatedBy,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *LeadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var l models.Lead
	err := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, phone, campaign_id, status, source, notes, created_by, created_at, updated_at
		FROM leads WHERE id = $1
	`, id).Scan(&l.ID, &l.FullName, &l.Email, &l.Phone, &l.CampaignID, &l.Status, &l.Source, &l.Notes, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

type LeadFilter struct {
	CampaignID *uuid.UUID
	Status     *string
	Limit      int
	Offset     int
}

func (r *LeadRepo) List(ctx context.Context, f LeadFilter) ([]models.Lead, error) {
	query := `
		SELECT id, full_name, email, phone, campaign_id, status, source, notes, created_by, created_at, updated_at
		FROM leads
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
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

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.FullName, &l.Email, &l.Phone, &l.CampaignID, &l.Status, &l.Source, &l.Notes, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, nil
}

func (r *LeadRepo) Update(ctx context.Context, l *models.Lead) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET full_name = $1, email = $2, phone = $3, campaign_id = $4, source = $5, notes = $6, updated_at = now()
		WHERE id = $7
	`, l.FullName, l.Email, l.Phone, l.CampaignID, l.Source, l.Notes, l.ID)
	return err
}

func (r *LeadRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE leads SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *LeadRepo) CountByCampaign(ctx context.Context, campaignID uuid.UUID) (total, converted int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'converted')
		FROM leads WHERE campaign_id = $1
	`, campaignID).Scan(&total, &converted)
	return total, converted, err
}
