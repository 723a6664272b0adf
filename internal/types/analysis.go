// Package types provides type definitions for structured data used throughout the resume-screener system.
package types

// AnalysisTypeComprehensive tags results produced by the full matching pipeline.
const AnalysisTypeComprehensive = "comprehensive"

// Employment type values recognized in EmploymentPosition.EmploymentType.
const (
	EmploymentFullTime   = "full-time"
	EmploymentContract   = "contract"
	EmploymentFreelance  = "freelance"
	EmploymentInternship = "internship"
)

// AnalysisResult is the complete outcome of matching one resume against one
// job requirement. The JSON field names form the storage contract and must
// not change.
type AnalysisResult struct {
	CandidateInfo      CandidateInfo      `json:"candidate_info"`
	SkillAnalysis      SkillAnalysis      `json:"skill_analysis"`
	ExperienceAnalysis ExperienceAnalysis `json:"experience_analysis"`
	ProfileFeedback    ProfileFeedback    `json:"profile_feedback"`
	Suggestions        []string           `json:"suggestions"`
	Summary            string             `json:"summary"`
	AnalysisType       string             `json:"analysis_type"`
}

// CandidateInfo identifies the candidate extracted from the resume header.
type CandidateInfo struct {
	CandidateName string `json:"candidate_name"`
}

// SkillAnalysis holds the primary-skill match score and the skill breakdowns.
// Secondary skills never contribute to the score.
type SkillAnalysis struct {
	MatchScore              int      `json:"match_score"`
	MatchingSkills          []string `json:"matching_skills"`
	MissingPrimarySkills    []string `json:"missing_primary_skills"`
	MatchingSecondarySkills []string `json:"matching_secondary_skills"`
	MissingSecondarySkills  []string `json:"missing_secondary_skills"`
}

// EmploymentPosition is a single work position extracted from the resume.
// Positions are embedded in an ExperienceAnalysis and never stored on their own.
type EmploymentPosition struct {
	Company         string `json:"company"`
	Title           string `json:"title"`
	Duration        string `json:"duration"`
	DurationLength  string `json:"duration_length"`
	Domain          string `json:"domain"`
	IsInternship    bool   `json:"is_internship"`
	EmploymentType  string `json:"employment_type"`
	DurationMissing bool   `json:"duration_missing"`
}

// ExperienceAnalysis aggregates the employment history of a candidate.
type ExperienceAnalysis struct {
	Positions                 []EmploymentPosition `json:"positions"`
	TotalExperience           string               `json:"total_experience"`
	ExperienceMatch           bool                 `json:"experience_match"`
	FrequentHopper            bool                 `json:"frequent_hopper"`
	IsFresher                 bool                 `json:"is_fresher"`
	PositionsWithMissingDates int                  `json:"positions_with_missing_dates"`
	ExperienceStatus          string               `json:"experience_status"`
	RequiredExperience        string               `json:"required_experience"`
}

// ProfileFeedback reports profile completeness signals for the candidate.
type ProfileFeedback struct {
	FreelancerStatus bool   `json:"freelancer_status"`
	HasLinkedIn      bool   `json:"has_linkedin"`
	LinkedInURL      string `json:"linkedin_url"`
	HasEmail         bool   `json:"has_email"`
	CandidateEmail   string `json:"candidate_email"`
	HasMobile        bool   `json:"has_mobile"`
	CandidateMobile  string `json:"candidate_mobile"`
}
