package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Company is a tenant record. Each tenant carries its own scoring-engine and
// parser credentials plus a monthly page quota.
type Company struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	GeminiAPIKey     string    `json:"-"`
	GeminiModel      string    `json:"gemini_model"`
	ParserAPIKey     string    `json:"-"`
	MonthlyPageLimit int       `json:"monthly_page_limit"`
	Status           string    `json:"status"`
	IsDeleted        bool      `json:"is_deleted"`
	CreatedAt        time.Time `json:"created_at"`
}

// CompanyStatusActive marks tenants allowed to run analyses.
const CompanyStatusActive = "active"

// GetCompany retrieves a tenant by ID. Returns nil without error when the
// tenant does not exist or has been soft-deleted.
func (db *DB) GetCompany(ctx context.Context, companyID string) (*Company, error) {
	var c Company
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, gemini_api_key, gemini_model, parser_api_key,
		        monthly_page_limit, status, is_deleted, created_at
		 FROM companies WHERE id = $1 AND is_deleted = FALSE`,
		companyID,
	).Scan(&c.ID, &c.Name, &c.GeminiAPIKey, &c.GeminiModel, &c.ParserAPIKey,
		&c.MonthlyPageLimit, &c.Status, &c.IsDeleted, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}
