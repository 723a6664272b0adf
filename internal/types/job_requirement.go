package types

import "github.com/go-playground/validator/v10"

// JobRequirement is the structured job-description data a resume is scored
// against. It is immutable input to a single matching run.
type JobRequirement struct {
	ClientName         string   `json:"client_name" validate:"required,min=1"`
	JDTitle            string   `json:"jd_title" validate:"required,min=1"`
	RequiredExperience string   `json:"required_experience"`
	MinExperience      int      `json:"min_experience" validate:"min=0"`
	MaxExperience      int      `json:"max_experience" validate:"min=0"`
	PrimarySkills      []string `json:"primary_skills" validate:"required,min=1"`
	SecondarySkills    []string `json:"secondary_skills"`
}

// Validate validates the JobRequirement using the validator.
func (r *JobRequirement) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
