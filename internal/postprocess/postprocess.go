// Package postprocess recomputes the derived experience fields of an
// analysis result. The scoring engine's numbers are advisory; everything
// here is recalculated deterministically and never fails.
package postprocess

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-screener/internal/duration"
	"github.com/jonathan/resume-screener/internal/types"
)

// Experience status values.
const (
	StatusComplete = "Complete dates available"
	StatusNoDates  = "No dates available for any position"
	StatusFresher  = "Fresher (no work experience found)"
)

// TotalMissingDuration is the total_experience sentinel used when every
// non-internship position lacks a usable duration.
const TotalMissingDuration = "Unable to Calculate (Missing Duration)"

// Process recomputes durations, missing-date counts, the frequent-hopper
// flag, total experience, and the experience match for result against req.
// now anchors "Present" end dates.
func Process(result *types.AnalysisResult, req *types.JobRequirement, now time.Time) {
	ea := &result.ExperienceAnalysis
	ea.RequiredExperience = req.RequiredExperience

	duration.Recompute(ea.Positions, now)

	if len(ea.Positions) == 0 {
		processFresher(result, req)
		return
	}

	missing := 0
	for _, p := range ea.Positions {
		if p.DurationMissing {
			missing++
		}
	}

	var totalMonths, nonInternship, usable int
	hopper := false
	for _, p := range ea.Positions {
		if p.IsInternship {
			continue
		}
		nonInternship++
		if p.DurationMissing {
			continue
		}
		months, ok := duration.ParseLength(p.DurationLength)
		if !ok {
			continue
		}
		usable++
		totalMonths += months
		if months >= 1 && months <= 11 {
			hopper = true
		}
	}

	ea.IsFresher = false
	ea.FrequentHopper = hopper
	ea.PositionsWithMissingDates = missing

	if nonInternship > 0 && usable == 0 {
		ea.TotalExperience = TotalMissingDuration
	} else {
		ea.TotalExperience = duration.Format(totalMonths)
	}

	switch {
	case missing == 0:
		ea.ExperienceStatus = StatusComplete
	case missing == len(ea.Positions):
		ea.ExperienceStatus = StatusNoDates
	default:
		ea.ExperienceStatus = fmt.Sprintf("Partial dates available (%d positions missing dates)", missing)
	}

	ea.ExperienceMatch = matchesRequirement(req.RequiredExperience, float64(totalMonths)/12)

	if missing > 0 {
		result.Suggestions = append(result.Suggestions,
			fmt.Sprintf("Add missing employment dates for %d position(s)", missing))
	}
	if hopper {
		result.Summary += " Candidate shows frequent job changes."
	}
}

// processFresher handles candidates with no extracted positions.
func processFresher(result *types.AnalysisResult, req *types.JobRequirement) {
	ea := &result.ExperienceAnalysis
	ea.IsFresher = true
	ea.TotalExperience = "0 years"
	ea.FrequentHopper = false
	ea.PositionsWithMissingDates = 0
	ea.ExperienceStatus = StatusFresher
	ea.ExperienceMatch = matchesRequirement(req.RequiredExperience, 0)

	if result.Summary == "" {
		result.Summary = "Fresher profile with no prior work experience."
		return
	}
	result.Summary = "Fresher profile. " + result.Summary
}

// matchesRequirement evaluates a requirement expression ("3+", "2-5", "4")
// against fractional total years. Unparseable expressions never match.
func matchesRequirement(expr string, totalYears float64) bool {
	expr = strings.TrimSpace(expr)

	switch {
	case strings.Contains(expr, "+"):
		n, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(expr, "+", "")))
		if err != nil {
			return false
		}
		return totalYears >= float64(n)
	case strings.Contains(expr, "-"):
		parts := strings.SplitN(expr, "-", 2)
		lo, errLo := strconv.Atoi(strings.TrimSpace(parts[0]))
		hi, errHi := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errLo != nil || errHi != nil {
			return false
		}
		return totalYears >= float64(lo) && totalYears <= float64(hi)
	default:
		n, err := strconv.Atoi(expr)
		if err != nil {
			return false
		}
		return totalYears >= float64(n)
	}
}
