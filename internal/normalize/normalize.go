// Package normalize turns raw scoring-engine output into a well-formed
// AnalysisResult. Engine responses are untrusted text: they may carry
// markdown fences, be truncated mid-document, or omit fields entirely.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/types"
)

// NotSpecified is the placeholder candidate name used when the engine does
// not identify one.
const NotSpecified = "Not specified"

var positionBlockPattern = regexp.MustCompile(`(?s)\{(.*?)\}`)

// ParseEngineResponse parses raw engine output into an AnalysisResult. It
// never fails: when strict JSON decoding is impossible, individual fields
// are recovered with pattern matching and everything else falls back to
// defaults.
func ParseEngineResponse(raw string) *types.AnalysisResult {
	cleaned := llm.CleanJSONBlock(raw)

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
		ApplyDefaults(&result)
		return &result
	}

	result = recoverResult(cleaned)
	ApplyDefaults(&result)
	return &result
}

// ApplyDefaults fills the fields a partially-parsed result may lack so that
// downstream stages and the storage contract always see complete documents.
func ApplyDefaults(result *types.AnalysisResult) {
	if strings.TrimSpace(result.CandidateInfo.CandidateName) == "" {
		result.CandidateInfo.CandidateName = NotSpecified
	}
	result.AnalysisType = types.AnalysisTypeComprehensive

	if result.SkillAnalysis.MatchingSkills == nil {
		result.SkillAnalysis.MatchingSkills = []string{}
	}
	if result.SkillAnalysis.MissingPrimarySkills == nil {
		result.SkillAnalysis.MissingPrimarySkills = []string{}
	}
	if result.SkillAnalysis.MatchingSecondarySkills == nil {
		result.SkillAnalysis.MatchingSecondarySkills = []string{}
	}
	if result.SkillAnalysis.MissingSecondarySkills == nil {
		result.SkillAnalysis.MissingSecondarySkills = []string{}
	}
	if result.ExperienceAnalysis.Positions == nil {
		result.ExperienceAnalysis.Positions = []types.EmploymentPosition{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
}

// recoverResult salvages whatever fields are recognizable in malformed or
// truncated engine output.
func recoverResult(text string) types.AnalysisResult {
	return types.AnalysisResult{
		CandidateInfo: types.CandidateInfo{
			CandidateName: extractString(text, "candidate_name"),
		},
		SkillAnalysis: types.SkillAnalysis{
			MatchScore:              extractInt(text, "match_score"),
			MatchingSkills:          extractList(text, "matching_skills"),
			MissingPrimarySkills:    extractList(text, "missing_primary_skills"),
			MatchingSecondarySkills: extractList(text, "matching_secondary_skills"),
			MissingSecondarySkills:  extractList(text, "missing_secondary_skills"),
		},
		ExperienceAnalysis: types.ExperienceAnalysis{
			Positions:                 extractPositions(text),
			TotalExperience:           extractString(text, "total_experience"),
			ExperienceMatch:           extractBool(text, "experience_match"),
			FrequentHopper:            extractBool(text, "frequent_hopper"),
			IsFresher:                 extractBool(text, "is_fresher"),
			PositionsWithMissingDates: extractInt(text, "positions_with_missing_dates"),
			ExperienceStatus:          extractString(text, "experience_status"),
		},
		ProfileFeedback: types.ProfileFeedback{
			FreelancerStatus: extractBool(text, "freelancer_status"),
			HasLinkedIn:      extractBool(text, "has_linkedin"),
			LinkedInURL:      extractString(text, "linkedin_url"),
			HasEmail:         extractBool(text, "has_email"),
			CandidateEmail:   extractString(text, "candidate_email"),
			HasMobile:        extractBool(text, "has_mobile"),
			CandidateMobile:  extractString(text, "candidate_mobile"),
		},
		Suggestions: extractList(text, "suggestions"),
		Summary:     extractString(text, "summary"),
	}
}

// extractString pulls a scalar value for key from loosely JSON-shaped text.
// The value runs to the next comma, newline or closing brace, so strings
// containing commas are cut short. That is an accepted recovery limitation.
func extractString(text, key string) string {
	pattern := regexp.MustCompile(fmt.Sprintf(`"%s"\s*:\s*([^,\n}]+)`, regexp.QuoteMeta(key)))
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m[1]), `"`)
}

func extractInt(text, key string) int {
	value := extractString(text, key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func extractBool(text, key string) bool {
	return strings.EqualFold(extractString(text, key), "true")
}

// extractList pulls a flat string array for key. Returns nil when the array
// is absent or unterminated.
func extractList(text, key string) []string {
	pattern := regexp.MustCompile(fmt.Sprintf(`(?s)"%s"\s*:\s*\[([^\]]*)\]`, regexp.QuoteMeta(key)))
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	var items []string
	for _, item := range strings.Split(m[1], ",") {
		item = strings.Trim(strings.TrimSpace(item), `"`)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// extractPositions recovers employment positions from object blocks. Only
// blocks carrying a "company" key are treated as positions; other nested
// objects (candidate_info, profile_feedback) are skipped.
func extractPositions(text string) []types.EmploymentPosition {
	var positions []types.EmploymentPosition
	for _, m := range positionBlockPattern.FindAllStringSubmatch(text, -1) {
		block := m[1]
		if !strings.Contains(block, `"company"`) {
			continue
		}
		positions = append(positions, types.EmploymentPosition{
			Company:         extractString(block, "company"),
			Title:           extractString(block, "title"),
			Duration:        extractString(block, "duration"),
			DurationLength:  extractString(block, "duration_length"),
			Domain:          extractString(block, "domain"),
			IsInternship:    extractBool(block, "is_internship"),
			EmploymentType:  extractString(block, "employment_type"),
			DurationMissing: extractBool(block, "duration_missing"),
		})
	}
	return positions
}
