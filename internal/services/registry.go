package services

import (
	"sort"

	"alfredoptarigan/cv-screener/internal/screening"
)

// JobRegistry resolves job ids to their required skills. It is built once
// from the rules and never changes.
type JobRegistry struct {
	table screening.RequirementTable
}

func NewJobRegistry(table screening.RequirementTable) *JobRegistry {
	copied := make(screening.RequirementTable, len(table))
	for id, skills := range table {
		copied[id] = append([]string(nil), skills...)
	}
	return &JobRegistry{table: copied}
}

// Lookup implements screening.RequirementLookup.
func (r *JobRegistry) Lookup(jobID string) screening.JobRequirement {
	return r.table.Lookup(jobID)
}

// Known reports whether the job id is configured.
func (r *JobRegistry) Known(jobID string) bool {
	_, ok := r.table[jobID]
	return ok
}

// Jobs lists every configured job ordered by id.
func (r *JobRegistry) Jobs() []screening.JobRequirement {
	ids := make([]string, 0, len(r.table))
	for id := range r.table {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	jobs := make([]screening.JobRequirement, 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, r.table.Lookup(id))
	}
	return jobs
}
