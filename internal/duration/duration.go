// Package duration computes employment durations from month-granular date
// ranges. All arithmetic is done on absolute month indexes so that year
// boundaries need no special handling.
package duration

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-screener/internal/types"
)

const monthsPerYear = 12

var (
	monthPattern   = regexp.MustCompile(`^(\d{1,2})\s*/\s*(\d{4})$`)
	presentPattern = regexp.MustCompile(`(?i)\b(present|current)\b`)
	yearsToken     = regexp.MustCompile(`(\d+)\s*year`)
	monthsToken    = regexp.MustCompile(`(\d+)\s*month`)
)

// Range is a month-granular employment interval. Start and End are absolute
// month indexes (year*12 + month-1). Present records that the end was given
// as "Present"/"Current" rather than a literal month.
type Range struct {
	Start   int
	End     int
	Present bool
}

// MonthIndex converts a point in time to an absolute month index.
func MonthIndex(t time.Time) int {
	return t.Year()*monthsPerYear + int(t.Month()) - 1
}

// ParseMonth parses a "MM/YYYY" token into an absolute month index.
func ParseMonth(s string) (int, bool) {
	m := monthPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, false
	}
	return year*monthsPerYear + month - 1, true
}

// ParseRange parses a position duration string such as "01/2020 - 06/2022"
// or "07/2021 - Present". "Present"/"Current" end dates resolve to now.
func ParseRange(s string, now int) (Range, bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Range{}, false
	}

	start, ok := ParseMonth(parts[0])
	if !ok {
		return Range{}, false
	}

	endText := strings.TrimSpace(parts[1])
	if presentPattern.MatchString(endText) {
		return Range{Start: start, End: now, Present: true}, true
	}

	end, ok := ParseMonth(endText)
	if !ok {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Months returns the naive month count of the range.
func (r Range) Months() int {
	return r.End - r.Start
}

// Format renders a month count using the display rule shared by positions
// and totals: "X years Y months", "Y months" below one year, "0 years" for
// zero.
func Format(totalMonths int) string {
	if totalMonths <= 0 {
		return "0 years"
	}
	years := totalMonths / monthsPerYear
	months := totalMonths % monthsPerYear
	switch {
	case years == 0:
		return fmt.Sprintf("%d months", months)
	case months == 0:
		return fmt.Sprintf("%d years", years)
	default:
		return fmt.Sprintf("%d years %d months", years, months)
	}
}

// ParseLength re-parses a rendered duration string ("2 years 5 months") back
// into a month count. Returns false when the string carries no year or month
// token.
func ParseLength(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return 0, false
	}

	total := 0
	found := false
	if m := yearsToken.FindStringSubmatch(s); m != nil {
		years, _ := strconv.Atoi(m[1])
		total += years * monthsPerYear
		found = true
	}
	if m := monthsToken.FindStringSubmatch(s); m != nil {
		months, _ := strconv.Atoi(m[1])
		total += months
		found = true
	}
	return total, found
}

// Recompute derives duration_length and duration_missing for every position
// from its duration string, overriding whatever the scoring engine reported.
// The engine's numbers are advisory; this function is the source of truth.
//
// Continuity rule: a position whose start month immediately follows the end
// month of the chronologically preceding position gains one bonus month
// (continuous employment, no gap). Positions that share a boundary month
// with their predecessor (overlapping or concurrent) get the naive count.
func Recompute(positions []types.EmploymentPosition, now time.Time) {
	nowIdx := MonthIndex(now)

	parsed := make([]*Range, len(positions))
	for i := range positions {
		r, ok := ParseRange(positions[i].Duration, nowIdx)
		if !ok || r.Months() < 0 {
			positions[i].DurationMissing = true
			continue
		}
		parsed[i] = &r
		positions[i].DurationMissing = false
	}

	annotateCurrent(positions, parsed)

	// Order parseable positions chronologically to find continuity bonuses.
	order := make([]int, 0, len(positions))
	for i, r := range parsed {
		if r != nil {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return parsed[order[a]].Start < parsed[order[b]].Start
	})

	for k, idx := range order {
		months := parsed[idx].Months()
		if k > 0 {
			prev := parsed[order[k-1]]
			if prev.End+1 == parsed[idx].Start {
				months++
			}
		}
		positions[idx].DurationLength = Format(months)
	}
}

// annotateCurrent marks only the position with the latest start date as
// "Present (Current)" when several positions claim an open-ended range.
func annotateCurrent(positions []types.EmploymentPosition, parsed []*Range) {
	latest := -1
	for i, r := range parsed {
		if r == nil || !r.Present {
			continue
		}
		if latest == -1 || r.Start > parsed[latest].Start {
			latest = i
		}
	}
	if latest == -1 {
		return
	}

	parts := strings.SplitN(positions[latest].Duration, "-", 2)
	start := strings.TrimSpace(parts[0])
	positions[latest].Duration = start + " - Present (Current)"
}
