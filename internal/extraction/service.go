package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the hosted parsing service endpoint.
const DefaultBaseURL = "https://api.cloud.llamaindex.ai"

const (
	jobStatusSuccess = "SUCCESS"
	jobStatusError   = "ERROR"
)

// Extractor converts an uploaded document into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, content []byte, filename string) (string, error)
}

// Service is an Extractor backed by the remote parsing service. Documents
// are uploaded, the parse job is polled, and the result is fetched in the
// requested mode. HTML documents never leave the process.
type Service struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	pollInterval time.Duration
	maxPolls     int
	log          *zap.Logger
}

// NewService creates a parsing-service client. An empty baseURL selects
// DefaultBaseURL; the API key is per-tenant and always explicit.
func NewService(baseURL, apiKey string, log *zap.Logger) *Service {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 60 * time.Second},
		pollInterval: 2 * time.Second,
		maxPolls:     60,
		log:          log,
	}
}

// ExtractText parses a document. Structured mode is tried first; a blank
// result triggers one retry in plain-text mode. A second blank result is a
// ParseError.
func (s *Service) ExtractText(ctx context.Context, content []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".html" || ext == ".htm" {
		return extractHTML(content, filename)
	}

	text, err := s.parse(ctx, content, filename, ModeJSON)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if err != nil {
		s.log.Warn("structured parse failed, retrying in text mode",
			zap.String("filename", filename), zap.Error(err))
	}

	text, err = s.parse(ctx, content, filename, ModeText)
	if err != nil {
		return "", &ParseError{Filename: filename, Message: "parsing service failed", Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &ParseError{Filename: filename, Message: "extraction produced no text"}
	}
	return text, nil
}

// parse runs one upload, poll, fetch cycle against the service.
func (s *Service) parse(ctx context.Context, content []byte, filename string, mode Mode) (string, error) {
	jobID, err := s.upload(ctx, content, filename)
	if err != nil {
		return "", err
	}

	if err := s.waitForJob(ctx, jobID); err != nil {
		return "", err
	}

	return s.fetchResult(ctx, jobID, mode)
}

func (s *Service) upload(ctx context.Context, content []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/parsing/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed: status %d", resp.StatusCode)
	}

	var uploadResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if uploadResp.ID == "" {
		return "", fmt.Errorf("upload response carried no job ID")
	}
	return uploadResp.ID, nil
}

func (s *Service) waitForJob(ctx context.Context, jobID string) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for i := 0; i < s.maxPolls; i++ {
		status, err := s.jobStatus(ctx, jobID)
		if err != nil {
			return err
		}
		switch status {
		case jobStatusSuccess:
			return nil
		case jobStatusError:
			return fmt.Errorf("parse job %s failed", jobID)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return fmt.Errorf("parse job %s timed out", jobID)
}

func (s *Service) jobStatus(ctx context.Context, jobID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/api/parsing/job/"+jobID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("job status check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("job status check failed: status %d", resp.StatusCode)
	}

	var statusResp struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		return "", fmt.Errorf("failed to decode job status: %w", err)
	}
	return statusResp.Status, nil
}

func (s *Service) fetchResult(ctx context.Context, jobID string, mode Mode) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/parsing/job/%s/result/%s", s.baseURL, jobID, mode), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("result fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("result fetch failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read result: %w", err)
	}

	if mode == ModeText {
		var textResp struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &textResp); err != nil {
			return "", fmt.Errorf("failed to decode text result: %w", err)
		}
		return textResp.Text, nil
	}

	var jsonResp struct {
		Pages []struct {
			Text string `json:"text"`
		} `json:"pages"`
	}
	if err := json.Unmarshal(data, &jsonResp); err != nil {
		return "", fmt.Errorf("failed to decode structured result: %w", err)
	}

	var pages []string
	for _, page := range jsonResp.Pages {
		if page.Text != "" {
			pages = append(pages, page.Text)
		}
	}
	return strings.Join(pages, "\n"), nil
}
