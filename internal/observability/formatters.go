// Package observability provides formatted output utilities for verbose CLI
// mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysisResult outputs a human-readable summary of one analysis.
func (p *Printer) PrintAnalysisResult(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate:  %s\n", result.CandidateInfo.CandidateName))
	sb.WriteString(fmt.Sprintf("Score:      %d/100\n", result.SkillAnalysis.MatchScore))
	sb.WriteString("\n")

	if len(result.SkillAnalysis.MatchingSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Matching skills:  %s\n",
			joinTruncated(result.SkillAnalysis.MatchingSkills, 40)))
	}
	if len(result.SkillAnalysis.MissingPrimarySkills) > 0 {
		sb.WriteString(fmt.Sprintf("Missing skills:   %s\n",
			joinTruncated(result.SkillAnalysis.MissingPrimarySkills, 40)))
	}
	sb.WriteString("\n")

	ea := result.ExperienceAnalysis
	sb.WriteString(fmt.Sprintf("Total experience: %s\n", ea.TotalExperience))
	sb.WriteString(fmt.Sprintf("Required:         %s (match: %t)\n", ea.RequiredExperience, ea.ExperienceMatch))
	sb.WriteString(fmt.Sprintf("Status:           %s\n", ea.ExperienceStatus))
	if ea.IsFresher {
		sb.WriteString("Fresher profile\n")
	}
	if ea.FrequentHopper {
		sb.WriteString("Frequent job changes detected\n")
	}
	sb.WriteString("\n")

	count := min(len(ea.Positions), maxItemsToShow)
	for i := 0; i < count; i++ {
		pos := ea.Positions[i]
		sb.WriteString(fmt.Sprintf("#%d  %s, %s\n", i+1, pos.Title, pos.Company))
		if pos.DurationMissing {
			sb.WriteString("    Dates not available\n")
		} else {
			sb.WriteString(fmt.Sprintf("    %s (%s)\n", pos.Duration, pos.DurationLength))
		}
	}
	if len(ea.Positions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more positions\n", len(ea.Positions)-maxItemsToShow))
	}

	p.printBox("ANALYSIS RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs the improvement suggestions list.
func (p *Printer) PrintSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	for _, suggestion := range suggestions {
		sb.WriteString(fmt.Sprintf("• %s\n", suggestion))
	}

	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

func joinTruncated(items []string, limit int) string {
	joined := strings.Join(items, ", ")
	if len(joined) > limit {
		joined = joined[:limit-3] + "..."
	}
	return joined
}
