package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-screener/internal/types"
)

// AnalysisRecord is a persisted analysis result with its request metadata.
type AnalysisRecord struct {
	ID            uuid.UUID            `json:"id"`
	CompanyID     string               `json:"company_id"`
	UserID        string               `json:"user_id"`
	ClientName    string               `json:"client_name"`
	JDTitle       string               `json:"jd_title"`
	CandidateName string               `json:"candidate_name"`
	MatchScore    int                  `json:"match_score"`
	PageCount     int                  `json:"page_count"`
	Result        types.AnalysisResult `json:"result"`
	CreatedAt     time.Time            `json:"created_at"`
}

// AnalysisSummary is a lightweight view of an analysis for history listings.
type AnalysisSummary struct {
	ID            uuid.UUID `json:"id"`
	ClientName    string    `json:"client_name"`
	JDTitle       string    `json:"jd_title"`
	CandidateName string    `json:"candidate_name"`
	MatchScore    int       `json:"match_score"`
	PageCount     int       `json:"page_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// SaveAnalysis stores a finished analysis and returns its ID.
func (db *DB) SaveAnalysis(ctx context.Context, companyID, userID string, req *types.JobRequirement, result *types.AnalysisResult, pageCount int) (uuid.UUID, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO analyses (company_id, user_id, client_name, jd_title,
		                       candidate_name, match_score, page_count, result)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		companyID, userID, req.ClientName, req.JDTitle,
		result.CandidateInfo.CandidateName, result.SkillAnalysis.MatchScore,
		pageCount, resultJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

// GetAnalysis retrieves a stored analysis scoped to a tenant. Returns nil
// without error when no matching record exists.
func (db *DB) GetAnalysis(ctx context.Context, companyID string, id uuid.UUID) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	var resultJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, company_id, user_id, client_name, jd_title, candidate_name,
		        match_score, page_count, result, created_at
		 FROM analyses WHERE id = $1 AND company_id = $2`,
		id, companyID,
	).Scan(&rec.ID, &rec.CompanyID, &rec.UserID, &rec.ClientName, &rec.JDTitle,
		&rec.CandidateName, &rec.MatchScore, &rec.PageCount, &resultJSON, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis result: %w", err)
	}
	return &rec, nil
}

// ListAnalyses retrieves a tenant's recent analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, companyID string, limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, client_name, jd_title, candidate_name, match_score, page_count, created_at
		 FROM analyses WHERE company_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		companyID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []AnalysisSummary
	for rows.Next() {
		var a AnalysisSummary
		if err := rows.Scan(&a.ID, &a.ClientName, &a.JDTitle, &a.CandidateName,
			&a.MatchScore, &a.PageCount, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}
