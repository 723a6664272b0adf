package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/schemas"
	"github.com/jonathan/resume-screener/internal/server/middleware"
	"github.com/jonathan/resume-screener/internal/types"
)

const maxUploadBytes = 32 << 20

// analyzeResponse is the /analyze success payload.
type analyzeResponse struct {
	AnalysisID uuid.UUID             `json:"analysis_id"`
	PageCount  int                   `json:"page_count"`
	Analysis   *types.AnalysisResult `json:"analysis"`
}

// handleAnalyze runs one resume upload through the matching pipeline:
// validate the job data, charge the page quota, extract text, score and
// persist.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "resume file is required")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read resume file")
		return
	}

	jdData := r.FormValue("jd_data")
	if jdData == "" {
		s.errorResponse(w, http.StatusBadRequest, "jd_data is required")
		return
	}

	if err := schemas.ValidateJobRequirement(jdData); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid jd_data: %v", err))
		return
	}

	var req types.JobRequirement
	if err := json.Unmarshal([]byte(jdData), &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid jd_data JSON: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid jd_data: %v", err))
		return
	}

	company, err := s.store.GetCompany(ctx, identity.CompanyID)
	if err != nil {
		s.log.Error("failed to load company", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "company not found")
		return
	}

	pageCount := extraction.CountPages(content, header.Filename)

	allowed, err := s.meter.CheckLimit(ctx, company.ID, company.MonthlyPageLimit, pageCount)
	if err != nil {
		s.log.Error("failed to check usage limit", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !allowed {
		s.errorResponse(w, http.StatusTooManyRequests,
			fmt.Sprintf("monthly page limit of %d exceeded", company.MonthlyPageLimit))
		return
	}

	extractor := s.newExtractor(company.ParserAPIKey)
	resumeText, err := extractor.ExtractText(ctx, content, header.Filename)
	if err != nil {
		var parseErr *extraction.ParseError
		if errors.As(err, &parseErr) {
			s.errorResponse(w, http.StatusUnprocessableEntity, "failed to parse resume text")
			return
		}
		s.log.Error("text extraction failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	engine, closeEngine, err := s.newEngine(ctx, company.GeminiAPIKey, company.GeminiModel)
	if err != nil {
		s.log.Error("failed to create scoring engine", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "scoring engine unavailable")
		return
	}
	defer func() { _ = closeEngine() }()

	analyzer := analysis.NewAnalyzer(engine, s.log)
	result, err := analyzer.Analyze(ctx, resumeText, &req)
	if err != nil {
		s.log.Error("analysis failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	analysisID, err := s.store.SaveAnalysis(ctx, company.ID, identity.UserID, &req, result, pageCount)
	if err != nil {
		s.log.Error("failed to save analysis", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to save analysis")
		return
	}

	if err := s.meter.Increment(ctx, company.ID, pageCount); err != nil {
		// The analysis is already stored; log only.
		s.log.Error("failed to increment usage", zap.Error(err))
	}

	s.jsonResponse(w, http.StatusOK, analyzeResponse{
		AnalysisID: analysisID,
		PageCount:  pageCount,
		Analysis:   result,
	})
}

// ensure db.DB keeps satisfying Storage
var _ Storage = (*db.DB)(nil)
