package db

import (
	"context"
	"fmt"
)

// GetMonthUsage returns the pages consumed by a tenant in the given month.
// month uses the "YYYY-MM" form. A tenant with no usage row has consumed 0.
func (db *DB) GetMonthUsage(ctx context.Context, companyID, month string) (int, error) {
	var pages int
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(pages), 0) FROM page_usage
		 WHERE company_id = $1 AND month = $2`,
		companyID, month,
	).Scan(&pages)
	if err != nil {
		return 0, fmt.Errorf("failed to get month usage: %w", err)
	}
	return pages, nil
}

// IncrementUsage charges pages against a tenant's monthly quota.
func (db *DB) IncrementUsage(ctx context.Context, companyID, month string, pages int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO page_usage (company_id, month, pages)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (company_id, month) DO UPDATE SET pages = page_usage.pages + $3, updated_at = NOW()`,
		companyID, month, pages,
	)
	if err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	return nil
}
