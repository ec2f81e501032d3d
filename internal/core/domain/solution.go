package domain

import "time"

// MaxSolutionNameLength bounds solution names, counted in runes.
const MaxSolutionNameLength = 100

// DeploymentStatus is the lifecycle stage of a parameter set within a solution.
// Transitions are linear: STAGING -> PRODUCTION -> ARCHIVED.
type DeploymentStatus string

// Deployment statuses.
const (
	StatusStaging    DeploymentStatus = "STAGING"
	StatusProduction DeploymentStatus = "PRODUCTION"
	StatusArchived   DeploymentStatus = "ARCHIVED"
)

// IsValid returns true if the status is recognised.
func (s DeploymentStatus) IsValid() bool {
	switch s {
	case StatusStaging, StatusProduction, StatusArchived:
		return true
	default:
		return false
	}
}

// Next returns the status that follows s, and false for the terminal state.
func (s DeploymentStatus) Next() (DeploymentStatus, bool) {
	switch s {
	case StatusStaging:
		return StatusProduction, true
	case StatusProduction:
		return StatusArchived, true
	default:
		return "", false
	}
}

// String returns the string representation.
func (s DeploymentStatus) String() string {
	return string(s)
}

// Solution is a named deployment unit.
type Solution struct {
	ID              string
	Name            string
	Description     string
	DeploymentDate  string
	DeprecationDate string
	Maintainers     string
}

// TruncateSolutionName cuts name to MaxSolutionNameLength runes.
func TruncateSolutionName(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxSolutionNameLength {
		return name
	}
	return string(runes[:MaxSolutionNameLength])
}

// SolutionParameterSet records that a parameter set is attached to a
// solution and where it is in its deployment lifecycle.
type SolutionParameterSet struct {
	SolutionID     string
	ParameterSetID string
	Status         DeploymentStatus
	InsertedAt     time.Time
}

// SolutionRef identifies a solution by id or by name.
// If both are set, ID wins.
type SolutionRef struct {
	ID   string
	Name string
}

// IsZero returns true if neither field is set.
func (r SolutionRef) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// String returns whichever identifier is set.
func (r SolutionRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Name
}

// ParameterSetRef identifies a parameter set by id or by name.
// If both are set, ID wins.
type ParameterSetRef struct {
	ID   string
	Name string
}

// IsZero returns true if neither field is set.
func (r ParameterSetRef) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// String returns whichever identifier is set.
func (r ParameterSetRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Name
}

// SolutionInput describes a solution to create.
// An empty ID asks the engine to generate one.
type SolutionInput struct {
	ID              string
	Name            string
	Description     string
	DeploymentDate  string
	DeprecationDate string
	Maintainers     string
}

// SolutionUpdate is a partial update: nil fields are left unchanged.
type SolutionUpdate struct {
	Name            *string
	Description     *string
	DeploymentDate  *string
	DeprecationDate *string
	Maintainers     *string
}

// IsEmpty returns true if no field is set.
func (u SolutionUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.DeploymentDate == nil &&
		u.DeprecationDate == nil && u.Maintainers == nil
}

// Apply returns s with the set fields of u applied.
func (u SolutionUpdate) Apply(s Solution) Solution {
	if u.Name != nil {
		s.Name = TruncateSolutionName(*u.Name)
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.DeploymentDate != nil {
		s.DeploymentDate = *u.DeploymentDate
	}
	if u.DeprecationDate != nil {
		s.DeprecationDate = *u.DeprecationDate
	}
	if u.Maintainers != nil {
		s.Maintainers = *u.Maintainers
	}
	return s
}
