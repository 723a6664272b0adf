package duration

import (
	"testing"
	"time"

	"github.com/jonathan/resume-screener/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC)

func positions(durations ...string) []types.EmploymentPosition {
	result := make([]types.EmploymentPosition, len(durations))
	for i, d := range durations {
		result[i] = types.EmploymentPosition{
			Company:  "Test Corp",
			Duration: d,
		}
	}
	return result
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"01/2020", 2020*12 + 0, true},
		{"12/2020", 2020*12 + 11, true},
		{" 7/2021 ", 2021*12 + 6, true},
		{"13/2020", 0, false},
		{"00/2020", 0, false},
		{"2020/01", 0, false},
		{"Present", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseMonth(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}

func TestParseRange_PresentResolvesToNow(t *testing.T) {
	now := MonthIndex(testNow)

	r, ok := ParseRange("07/2021 - Present", now)
	require.True(t, ok)
	assert.Equal(t, now, r.End)
	assert.True(t, r.Present)

	r, ok = ParseRange("07/2021 - Current", now)
	require.True(t, ok)
	assert.True(t, r.Present)
}

func TestParseRange_Malformed(t *testing.T) {
	now := MonthIndex(testNow)

	for _, input := range []string{"", "07/2021", "unknown - 07/2021", "07/2021 - unknown"} {
		_, ok := ParseRange(input, now)
		assert.False(t, ok, "input %q", input)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		months int
		want   string
	}{
		{0, "0 years"},
		{-3, "0 years"},
		{9, "9 months"},
		{12, "1 years"},
		{24, "2 years"},
		{31, "2 years 7 months"},
		{52, "4 years 4 months"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.months), "months %d", tt.months)
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"2 years 5 months", 29, true},
		{"9 months", 9, true},
		{"4 years", 48, true},
		{"1 year 1 month", 13, true},
		{"0 years", 0, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"unknown", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseLength(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestRecompute_ContinuousSequenceAddsBonusMonth(t *testing.T) {
	// Each position starts the month after the previous one ended: the later
	// position of each adjacent pair earns one bonus month.
	pos := positions(
		"07/2021 - 10/2025",
		"10/2020 - 06/2021",
		"03/2018 - 09/2020",
		"06/2015 - 02/2018",
	)

	Recompute(pos, testNow)

	assert.Equal(t, "4 years 4 months", pos[0].DurationLength)
	assert.Equal(t, "9 months", pos[1].DurationLength)
	assert.Equal(t, "2 years 7 months", pos[2].DurationLength)
	assert.Equal(t, "2 years 8 months", pos[3].DurationLength)
	for _, p := range pos {
		assert.False(t, p.DurationMissing)
	}
}

func TestRecompute_OverlappingBoundaryMonthGetsNaiveCount(t *testing.T) {
	// Adjacent positions share a boundary month: no bonus anywhere.
	pos := positions(
		"07/2021 - 10/2025",
		"10/2020 - 07/2021",
		"03/2018 - 10/2020",
		"06/2015 - 03/2018",
	)

	Recompute(pos, testNow)

	assert.Equal(t, "4 years 3 months", pos[0].DurationLength)
	assert.Equal(t, "9 months", pos[1].DurationLength)
	assert.Equal(t, "2 years 7 months", pos[2].DurationLength)
	assert.Equal(t, "2 years 9 months", pos[3].DurationLength)
}

func TestRecompute_GapBetweenPositions(t *testing.T) {
	pos := positions(
		"01/2022 - 06/2022",
		"01/2020 - 06/2020",
	)

	Recompute(pos, testNow)

	assert.Equal(t, "5 months", pos[0].DurationLength)
	assert.Equal(t, "5 months", pos[1].DurationLength)
}

func TestRecompute_MissingDatesFlagged(t *testing.T) {
	pos := positions(
		"01/2020 - 06/2022",
		"",
		"Dates not available",
	)

	Recompute(pos, testNow)

	assert.False(t, pos[0].DurationMissing)
	assert.Equal(t, "2 years 5 months", pos[0].DurationLength)
	assert.True(t, pos[1].DurationMissing)
	assert.True(t, pos[2].DurationMissing)
}

func TestRecompute_EndBeforeStartTreatedAsMissing(t *testing.T) {
	pos := positions("06/2022 - 01/2020")

	Recompute(pos, testNow)

	assert.True(t, pos[0].DurationMissing)
}

func TestRecompute_LatestPresentAnnotatedAsCurrent(t *testing.T) {
	pos := positions(
		"03/2024 - Present",
		"01/2020 - Present",
	)

	Recompute(pos, testNow)

	assert.Equal(t, "03/2024 - Present (Current)", pos[0].Duration)
	assert.Equal(t, "01/2020 - Present", pos[1].Duration)
}

func TestRecompute_PresentDurationUsesCurrentMonth(t *testing.T) {
	pos := positions("11/2024 - Present")

	Recompute(pos, testNow)

	// 11/2024 through 11/2025 is 12 naive months.
	assert.Equal(t, "1 years", pos[0].DurationLength)
}
