// Package screening holds the keyword scoring and shortlist selection rules.
// Everything here is a pure transformation over values; I/O lives in services.
package screening

import "path/filepath"

type Status string

const (
	StatusScored Status = "scored"
	StatusFailed Status = "failed"
)

// Candidate is a single submission. A nil ResumeText means the resume could
// not be retrieved; RetrievalError then carries the reason.
type Candidate struct {
	Name           string
	JobID          string
	ResumeLocation string
	ResumeText     *string
	RetrievalError string
}

// WithText returns a copy of c carrying the retrieved resume text.
func (c Candidate) WithText(text string) Candidate {
	c.ResumeText = &text
	c.RetrievalError = ""
	return c
}

// WithFailure returns a copy of c marked as not retrievable.
func (c Candidate) WithFailure(reason string) Candidate {
	c.ResumeText = nil
	c.RetrievalError = reason
	return c
}

type JobRequirement struct {
	JobID          string   `json:"job_id"`
	RequiredSkills []string `json:"required_skills"`
}

// RequirementLookup resolves the skills configured for a job. Unknown jobs
// resolve to a requirement with no skills.
type RequirementLookup interface {
	Lookup(jobID string) JobRequirement
}

// RequirementTable is a static job id -> skills table.
type RequirementTable map[string][]string

// Lookup implements RequirementLookup.
func (t RequirementTable) Lookup(jobID string) JobRequirement {
	skills := t[jobID]
	out := make([]string, len(skills))
	copy(out, skills)
	return JobRequirement{JobID: jobID, RequiredSkills: out}
}

type ScoreResult struct {
	CandidateName string   `json:"name"`
	JobID         string   `json:"job_id"`
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	Shortlisted   bool     `json:"shortlisted"`
	Status        Status   `json:"status"`
	Error         string   `json:"error,omitempty"`

	// ResumeLocation is carried over from the candidate so ranked entries can
	// be traced back to their file.
	ResumeLocation string `json:"-"`
}

// Failed reports whether the candidate could not be scored at all.
func (r ScoreResult) Failed() bool {
	return r.Status == StatusFailed
}

type ShortlistEntry struct {
	JobID            string `json:"job_id"`
	Rank             int    `json:"rank"`
	CandidateName    string `json:"name"`
	Score            int    `json:"score"`
	AssignedFilename string `json:"assigned_filename"`
	ResumeLocation   string `json:"-"`
}

// UploadFilename is the name a single uploaded resume is kept under.
func UploadFilename(jobID, original string) string {
	return jobID + "_" + filepath.Base(original)
}
