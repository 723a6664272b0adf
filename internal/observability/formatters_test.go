package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-screener/internal/types"
)

func TestPrintAnalysisResult(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintAnalysisResult(&types.AnalysisResult{
		CandidateInfo: types.CandidateInfo{CandidateName: "Priya Sharma"},
		SkillAnalysis: types.SkillAnalysis{
			MatchScore:           82,
			MatchingSkills:       []string{"Go", "PostgreSQL"},
			MissingPrimarySkills: []string{"AWS"},
		},
		ExperienceAnalysis: types.ExperienceAnalysis{
			Positions: []types.EmploymentPosition{
				{Company: "ACME", Title: "Engineer", Duration: "01/2020 - 01/2023", DurationLength: "3 years"},
				{Company: "Globex", Title: "Analyst", DurationMissing: true},
			},
			TotalExperience:    "3 years",
			RequiredExperience: "2+",
			ExperienceMatch:    true,
			ExperienceStatus:   "Partial dates available (1 positions missing dates)",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "ANALYSIS RESULT")
	assert.Contains(t, out, "Priya Sharma")
	assert.Contains(t, out, "82/100")
	assert.Contains(t, out, "Go, PostgreSQL")
	assert.Contains(t, out, "Dates not available")
	assert.True(t, strings.HasPrefix(out, "┌"))
}

func TestPrintAnalysisResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysisResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintSuggestions(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSuggestions([]string{"Add AWS experience"})
	assert.Contains(t, buf.String(), "• Add AWS experience")
}

func TestPrintSuggestions_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSuggestions(nil)
	assert.Empty(t, buf.String())
}
