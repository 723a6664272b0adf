// Package enrich fills profile-feedback gaps the scoring engine left open by
// extracting contact details directly from the resume text.
package enrich

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-screener/internal/normalize"
	"github.com/jonathan/resume-screener/internal/types"
)

// NoEmailFound is the sentinel returned by ExtractEmail when the resume
// carries no recognizable email address.
const NoEmailFound = "No email found"

var (
	linkedInPattern = regexp.MustCompile(`https?://(www\.)?linkedin\.com/in/[A-Za-z0-9\-_]+/?`)
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

	// Ordered by priority. Bare 10-digit numbers win over prefixed forms.
	mobilePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[6-9]\d{9}\b`),
		regexp.MustCompile(`\+91[\s-]?[6-9]\d{4}[\s-]?\d{5}\b`),
		regexp.MustCompile(`\b91[\s-]?[6-9]\d{4}[\s-]?\d{5}\b`),
		regexp.MustCompile(`\b0[\s-]?[6-9]\d{4}[\s-]?\d{5}\b`),
	}

	nonMobileChars = regexp.MustCompile(`[^\d+]`)
)

// Enrich fills ProfileFeedback fields the engine omitted, derives freelancer
// status from position employment types, normalizes the candidate name, and
// appends profile notes to the summary. The resume text is the source for
// all regex extraction.
func Enrich(result *types.AnalysisResult, resumeText string) {
	pf := &result.ProfileFeedback

	if !pf.HasLinkedIn {
		if url := ExtractLinkedInURL(resumeText); url != "" {
			pf.HasLinkedIn = true
			pf.LinkedInURL = url
		}
	}

	if !pf.HasEmail {
		if email := ExtractEmail(resumeText); email != NoEmailFound {
			pf.HasEmail = true
			pf.CandidateEmail = email
		}
	}

	if !pf.HasMobile {
		if mobile := ExtractMobileNumber(resumeText); mobile != "" {
			pf.HasMobile = true
			pf.CandidateMobile = mobile
		}
	}

	if !pf.FreelancerStatus {
		for _, position := range result.ExperienceAnalysis.Positions {
			et := strings.ToLower(position.EmploymentType)
			if et == types.EmploymentFreelance || et == types.EmploymentContract {
				pf.FreelancerStatus = true
				break
			}
		}
	}

	if result.CandidateInfo.CandidateName != normalize.NotSpecified {
		result.CandidateInfo.CandidateName = InitCaps(result.CandidateInfo.CandidateName)
	}

	appendSummaryNotes(result)
}

// appendSummaryNotes adds profile observations to the summary without
// replacing the engine's assessment.
func appendSummaryNotes(result *types.AnalysisResult) {
	var notes []string
	if result.ProfileFeedback.FreelancerStatus {
		notes = append(notes, "Has freelance/contract experience")
	}
	if result.ProfileFeedback.HasLinkedIn {
		notes = append(notes, "LinkedIn profile available")
	} else {
		notes = append(notes, "LinkedIn missing")
	}

	joined := strings.Join(notes, ". ") + "."
	if result.Summary == "" {
		result.Summary = joined
		return
	}
	result.Summary += " " + joined
}

// ExtractLinkedInURL returns the first LinkedIn profile URL in the text, or
// an empty string.
func ExtractLinkedInURL(text string) string {
	return linkedInPattern.FindString(text)
}

// ExtractEmail returns the first email address in the text, or NoEmailFound.
func ExtractEmail(text string) string {
	if match := emailPattern.FindString(text); match != "" {
		return match
	}
	return NoEmailFound
}

// ExtractMobileNumber finds a mobile number in the text and normalizes it to
// the +91XXXXXXXXXX canonical form. Returns an empty string when no pattern
// matches.
func ExtractMobileNumber(text string) string {
	for _, pattern := range mobilePatterns {
		if match := pattern.FindString(text); match != "" {
			return normalizeMobile(match)
		}
	}
	return ""
}

// normalizeMobile strips separators and applies the Indian country code.
// Already-canonical 13-character +91 numbers pass through unchanged.
func normalizeMobile(raw string) string {
	clean := nonMobileChars.ReplaceAllString(raw, "")

	switch {
	case len(clean) == 10 && clean[0] >= '6' && clean[0] <= '9':
		return "+91" + clean
	case len(clean) == 11 && strings.HasPrefix(clean, "0"):
		return "+91" + clean[1:]
	case len(clean) == 12 && strings.HasPrefix(clean, "91"):
		return "+" + clean
	case len(clean) == 13 && strings.HasPrefix(clean, "+91"):
		return clean
	default:
		return clean
	}
}

// InitCaps capitalizes the first letter of each word while preserving words
// that are entirely uppercase, such as initials and acronyms.
func InitCaps(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		if word == strings.ToUpper(word) {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
