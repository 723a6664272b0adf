package schemas

import (
	_ "embed"
)

//go:embed job_requirement.schema.json
var jobRequirementSchema string

// ValidateJobRequirement validates a job-requirement JSON payload against
// the embedded schema.
func ValidateJobRequirement(jsonContent string) error {
	return ValidateJSONString(jobRequirementSchema, jsonContent)
}
