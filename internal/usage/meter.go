// Package usage meters per-tenant page consumption against monthly quotas.
package usage

import (
	"context"
	"fmt"
	"time"
)

// Store persists per-month page counters. db.DB satisfies it.
type Store interface {
	GetMonthUsage(ctx context.Context, companyID, month string) (int, error)
	IncrementUsage(ctx context.Context, companyID, month string, pages int) error
}

// Stats reports a tenant's quota position for one month.
type Stats struct {
	Month       string  `json:"month"`
	Used        int     `json:"used"`
	Limit       int     `json:"limit"`
	Remaining   int     `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
}

// Meter checks and charges page usage. Quotas reset at month boundaries; a
// limit of 0 or less means unlimited.
type Meter struct {
	store Store
	now   func() time.Time
}

// NewMeter creates a Meter over the given store.
func NewMeter(store Store) *Meter {
	return &Meter{store: store, now: time.Now}
}

func (m *Meter) month() string {
	return m.now().UTC().Format("2006-01")
}

// CheckLimit reports whether charging pages would keep the tenant within its
// monthly limit.
func (m *Meter) CheckLimit(ctx context.Context, companyID string, limit, pages int) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	used, err := m.store.GetMonthUsage(ctx, companyID, m.month())
	if err != nil {
		return false, fmt.Errorf("failed to check usage limit: %w", err)
	}
	return used+pages <= limit, nil
}

// Increment charges pages to the tenant for the current month.
func (m *Meter) Increment(ctx context.Context, companyID string, pages int) error {
	return m.store.IncrementUsage(ctx, companyID, m.month(), pages)
}

// Stats returns the tenant's current-month quota position.
func (m *Meter) Stats(ctx context.Context, companyID string, limit int) (*Stats, error) {
	month := m.month()
	used, err := m.store.GetMonthUsage(ctx, companyID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage stats: %w", err)
	}

	remaining := limit - used
	percent := 0.0
	if limit <= 0 {
		remaining = -1
	} else {
		if remaining < 0 {
			remaining = 0
		}
		percent = float64(used) / float64(limit) * 100
	}

	return &Stats{Month: month, Used: used, Limit: limit, Remaining: remaining, PercentUsed: percent}, nil
}
