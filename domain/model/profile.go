// Package model contains the profile and match types passed between layers.
package model

import "github.com/google/uuid"

// Role classifies a platform user. Only employees and managers are
// discoverable by matching.
type Role string

// Known roles.
const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// JobStatus tracks the lifecycle of a posting. Only open jobs are rescored
// by a retrain pass.
type JobStatus string

// Known job statuses.
const (
	JobOpen      JobStatus = "open"
	JobClosed    JobStatus = "closed"
	JobOnHold    JobStatus = "on_hold"
	JobCancelled JobStatus = "cancelled"
)

// JobProfile is the matching engine's read-only view of a job posting.
// Skill sets are expected to be duplicate-free after case-insensitive
// normalization; NormalizedRequired/NormalizedOptional enforce that.
type JobProfile struct {
	ID                  uuid.UUID
	Title               string
	Team                string
	Description         string
	ShortDescription    string
	RequiredSkills      []string
	OptionalSkills      []string
	MinExperienceMonths int
	PreferredCerts      []string
	Status              JobStatus
}

// CandidateProfile is the matching engine's read-only view of an employee.
// Every field has a usable zero value; the engine never needs defensive
// attribute access.
type CandidateProfile struct {
	ID               uuid.UUID
	Role             Role
	CurrentTitle     string
	Aspirations      string
	TechnicalSkills  []string
	ExperienceMonths int
	Certifications   []string
	Education        []string
	PastEmployers    []string
	Achievements     []string
	OptedOut         bool
}

// Eligible reports whether the candidate may appear in automatic discovery:
// opted-out profiles are never matched, and only employee/manager roles
// participate.
func (c CandidateProfile) Eligible() bool {
	if c.OptedOut {
		return false
	}
	return c.Role == RoleEmployee || c.Role == RoleManager
}
