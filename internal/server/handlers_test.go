package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/types"
	"github.com/jonathan/resume-screener/internal/usage"
)

type stubStore struct {
	company   *db.Company
	record    *db.AnalysisRecord
	summaries []db.AnalysisSummary
	savedID   uuid.UUID
	saveErr   error
}

func (s *stubStore) GetCompany(context.Context, string) (*db.Company, error) {
	return s.company, nil
}

func (s *stubStore) SaveAnalysis(_ context.Context, _, _ string, _ *types.JobRequirement, _ *types.AnalysisResult, _ int) (uuid.UUID, error) {
	if s.saveErr != nil {
		return uuid.Nil, s.saveErr
	}
	return s.savedID, nil
}

func (s *stubStore) GetAnalysis(context.Context, string, uuid.UUID) (*db.AnalysisRecord, error) {
	return s.record, nil
}

func (s *stubStore) ListAnalyses(context.Context, string, int) ([]db.AnalysisSummary, error) {
	return s.summaries, nil
}

type stubMeter struct {
	allowed     bool
	incremented int
}

func (m *stubMeter) CheckLimit(context.Context, string, int, int) (bool, error) {
	return m.allowed, nil
}

func (m *stubMeter) Increment(_ context.Context, _ string, pages int) error {
	m.incremented += pages
	return nil
}

func (m *stubMeter) Stats(context.Context, string, int) (*usage.Stats, error) {
	return &usage.Stats{Month: "2025-11", Used: 10, Limit: 100, Remaining: 90}, nil
}

type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) ExtractText(context.Context, []byte, string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

type stubScoringEngine struct {
	response string
	err      error
}

func (e *stubScoringEngine) GenerateContent(context.Context, string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.response, nil
}

const stubEngineResponse = `{
	"candidate_info": {"candidate_name": "Priya Sharma"},
	"skill_analysis": {"match_score": 82, "matching_skills": ["Go"],
		"missing_primary_skills": [], "matching_secondary_skills": [], "missing_secondary_skills": []},
	"experience_analysis": {"positions": [{"company": "ACME", "title": "Engineer",
		"duration": "01/2020 - 01/2023", "duration_length": "3 years", "domain": "IT",
		"is_internship": false, "employment_type": "full-time", "duration_missing": false}],
		"total_experience": "3 years", "experience_match": true, "frequent_hopper": false, "is_fresher": false},
	"profile_feedback": {"freelancer_status": false, "has_linkedin": false,
		"has_email": false, "has_mobile": false},
	"suggestions": [],
	"summary": "Strong match."
}`

type testServer struct {
	*Server
	store     *stubStore
	meter     *stubMeter
	extractor *stubExtractor
	engine    *stubScoringEngine
	token     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := &stubStore{
		company: &db.Company{
			ID:               "company-1",
			Name:             "Globex",
			GeminiAPIKey:     "tenant-gemini-key",
			MonthlyPageLimit: 100,
			Status:           db.CompanyStatusActive,
		},
		savedID: uuid.New(),
	}
	meter := &stubMeter{allowed: true}
	extractor := &stubExtractor{text: "Priya Sharma\npriya@example.com\nEngineer at ACME"}
	engine := &stubScoringEngine{response: stubEngineResponse}

	s := &Server{
		store:      store,
		meter:      meter,
		jwtService: newTestJWTService(),
		log:        zap.NewNop(),
		newExtractor: func(string) extraction.Extractor {
			return extractor
		},
		newEngine: func(context.Context, string, string) (analysis.Engine, func() error, error) {
			return engine, func() error { return nil }, nil
		},
	}

	token, err := s.jwtService.GenerateToken("user-1", "company-1", "recruiter")
	require.NoError(t, err)

	return &testServer{Server: s, store: store, meter: meter, extractor: extractor, engine: engine, token: token}
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+ts.token)
	rec := httptest.NewRecorder()
	ts.routes().ServeHTTP(rec, req)
	return rec
}

const validJD = `{
	"client_name": "Globex",
	"jd_title": "Backend Engineer",
	"required_experience": "2+",
	"min_experience": 2,
	"max_experience": 5,
	"primary_skills": ["Go"],
	"secondary_skills": []
}`

func analyzeRequest(t *testing.T, jdData string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", "resume.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 resume bytes"))
	require.NoError(t, err)
	if jdData != "" {
		require.NoError(t, mw.WriteField("jd_data", jdData))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleAnalyze_Success(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, analyzeRequest(t, validJD))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ts.store.savedID, resp.AnalysisID)
	assert.Equal(t, 1, resp.PageCount)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, "Priya Sharma", resp.Analysis.CandidateInfo.CandidateName)
	assert.Equal(t, 82, resp.Analysis.SkillAnalysis.MatchScore)
	assert.True(t, resp.Analysis.ExperienceAnalysis.ExperienceMatch)
	assert.Equal(t, 1, ts.meter.incremented)
}

func TestHandleAnalyze_MissingJDData(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, analyzeRequest(t, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_InvalidJDData(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, analyzeRequest(t, `{"jd_title": "No client"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "client_name")
}

func TestHandleAnalyze_QuotaExceeded(t *testing.T) {
	ts := newTestServer(t)
	ts.meter.allowed = false

	rec := ts.do(t, analyzeRequest(t, validJD))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Zero(t, ts.meter.incremented)
}

func TestHandleAnalyze_UnparseableResume(t *testing.T) {
	ts := newTestServer(t)
	ts.extractor.err = &extraction.ParseError{Filename: "resume.pdf", Message: "extraction produced no text"}

	rec := ts.do(t, analyzeRequest(t, validJD))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, ts.meter.incremented)
}

func TestHandleAnalyze_EngineFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.engine.err = errors.New("quota exhausted")

	rec := ts.do(t, analyzeRequest(t, validJD))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "analysis failed")
	assert.Zero(t, ts.meter.incremented)
}

func TestHandleAnalyze_UnknownCompany(t *testing.T) {
	ts := newTestServer(t)
	ts.store.company = nil

	rec := ts.do(t, analyzeRequest(t, validJD))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAnalyze_Unauthenticated(t *testing.T) {
	ts := newTestServer(t)

	req := analyzeRequest(t, validJD)
	rec := httptest.NewRecorder()
	ts.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleHistory(t *testing.T) {
	ts := newTestServer(t)
	ts.store.summaries = []db.AnalysisSummary{
		{ID: uuid.New(), ClientName: "Globex", JDTitle: "Backend Engineer", CandidateName: "Priya Sharma", MatchScore: 82},
	}

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Priya Sharma")
}

func TestHandleHistory_EmptyIsList(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"analyses":[]`)
}

func TestHandleHistory_BadLimit(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/history?limit=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetAnalysis(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.New()
	ts.store.record = &db.AnalysisRecord{ID: id, CompanyID: "company-1", CandidateName: "Priya Sharma"}

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/analyses/"+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id.String())
}

func TestHandleGetAnalysis_BadID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/analyses/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetAnalysis_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/analyses/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUsage(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/usage", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats usage.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 90, stats.Remaining)
}

func TestHandleHealth_NoAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
