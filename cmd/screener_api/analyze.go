package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/schemas"
	"github.com/jonathan/resume-screener/internal/types"
)

var (
	analyzeJDPath      string
	analyzeModel       string
	analyzeConcurrency int
	analyzeJSONOutput  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume files...]",
	Short: "Analyze resumes against a job description locally",
	Long: `Analyze one or more resume files against a job-description JSON file
without going through the HTTP API. Requires GEMINI_API_KEY; PDF and DOCX
files additionally require LLAMA_CLOUD_API_KEY for text extraction.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJDPath, "jd", "", "Path to job description JSON file (required)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Gemini model to use (default "+llm.DefaultModel+")")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 3, "Maximum resumes analyzed in parallel")
	analyzeCmd.Flags().BoolVar(&analyzeJSONOutput, "json", false, "Print raw JSON results instead of formatted output")
	_ = analyzeCmd.MarkFlagRequired("jd")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req, err := loadJobRequirement(analyzeJDPath)
	if err != nil {
		return err
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	log, err := logger.New(false, false)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	client, err := llm.NewGeminiClient(ctx, geminiKey, analyzeModel)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	analyzer := analysis.NewAnalyzer(client, log)

	var extractor extraction.Extractor
	if parserKey := os.Getenv("LLAMA_CLOUD_API_KEY"); parserKey != "" {
		extractor = extraction.NewService("", parserKey, log)
	}

	printer := observability.NewPrinter(os.Stdout)
	var printMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeConcurrency)

	for _, path := range args {
		g.Go(func() error {
			text, err := readResumeText(ctx, extractor, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			result, err := analyzer.Analyze(ctx, text, req)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			printMu.Lock()
			defer printMu.Unlock()
			fmt.Printf("\n=== %s ===\n", filepath.Base(path))
			if analyzeJSONOutput {
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			} else {
				printer.PrintAnalysisResult(result)
				printer.PrintSuggestions(result.Suggestions)
			}
			return nil
		})
	}

	return g.Wait()
}

// loadJobRequirement reads and validates a job description JSON file. Schema
// validation runs first so field-level errors name the offending keys.
func loadJobRequirement(path string) (*types.JobRequirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job description: %w", err)
	}

	if err := schemas.ValidateJobRequirement(string(data)); err != nil {
		return nil, fmt.Errorf("invalid job description: %w", err)
	}

	var req types.JobRequirement
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse job description: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job description: %w", err)
	}

	return &req, nil
}

// readResumeText returns the text content of a resume file. Plain-text
// formats are read directly; anything else goes through the parsing service.
func readResumeText(ctx context.Context, extractor extraction.Extractor, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return string(content), nil
	}

	if extractor == nil {
		return "", fmt.Errorf("LLAMA_CLOUD_API_KEY environment variable is required for %s files", filepath.Ext(path))
	}
	return extractor.ExtractText(ctx, content, filepath.Base(path))
}
