package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/server/middleware"
)

// handleHistory lists the tenant's recent analyses.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	analyses, err := s.store.ListAnalyses(r.Context(), identity.CompanyID, limit)
	if err != nil {
		s.log.Error("failed to list analyses", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	if analyses == nil {
		analyses = []db.AnalysisSummary{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"analyses": analyses})
}

// handleGetAnalysis returns one stored analysis scoped to the tenant.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	record, err := s.store.GetAnalysis(r.Context(), identity.CompanyID, id)
	if err != nil {
		s.log.Error("failed to get analysis", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "analysis not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleUsage reports the tenant's current-month quota position.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	company, err := s.store.GetCompany(r.Context(), identity.CompanyID)
	if err != nil {
		s.log.Error("failed to load company", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "company not found")
		return
	}

	stats, err := s.meter.Stats(r.Context(), company.ID, company.MonthlyPageLimit)
	if err != nil {
		s.log.Error("failed to get usage stats", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}
