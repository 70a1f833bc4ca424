package screening

import (
	"fmt"
	"sort"
)

// DefaultTopN is how many candidates are kept per job.
const DefaultTopN = 5

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithTopN overrides DefaultTopN. Non-positive values keep the default.
func WithTopN(n int) SelectorOption {
	return func(s *Selector) {
		if n > 0 {
			s.topN = n
		}
	}
}

// Selector ranks scored results per job and keeps the best TopN of each.
type Selector struct {
	topN int
}

func NewSelector(opts ...SelectorOption) Selector {
	s := Selector{topN: DefaultTopN}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s Selector) TopN() int {
	if s.topN <= 0 {
		return DefaultTopN
	}
	return s.topN
}

// ShortlistFilename is the name a ranked resume is stored under.
func ShortlistFilename(jobID string, rank int) string {
	return fmt.Sprintf("%s_%d.pdf", jobID, rank)
}

// Select groups results by job, sorts each group by descending score keeping
// input order on ties, and truncates to TopN. Failed results are not ranked;
// they are reported through Shortlist.Excluded.
func (s Selector) Select(results []ScoreResult) Shortlist {
	groups := make(map[string][]ScoreResult)
	var excluded []ScoreResult

	for _, r := range results {
		if r.Failed() {
			excluded = append(excluded, r)
			continue
		}
		groups[r.JobID] = append(groups[r.JobID], r)
	}

	topN := s.TopN()
	byJob := make(map[string][]ShortlistEntry, len(groups))
	for jobID, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
		if len(group) > topN {
			group = group[:topN]
		}

		entries := make([]ShortlistEntry, 0, len(group))
		for i, r := range group {
			rank := i + 1
			entries = append(entries, ShortlistEntry{
				JobID:            jobID,
				Rank:             rank,
				CandidateName:    r.CandidateName,
				Score:            r.Score,
				AssignedFilename: ShortlistFilename(jobID, rank),
				ResumeLocation:   r.ResumeLocation,
			})
		}
		byJob[jobID] = entries
	}

	return Shortlist{byJob: byJob, excluded: excluded}
}

// Shortlist is the outcome of Select.
type Shortlist struct {
	byJob    map[string][]ShortlistEntry
	excluded []ScoreResult
}

// Entries returns the ranked entries for a job, best first.
func (s Shortlist) Entries(jobID string) []ShortlistEntry {
	entries := s.byJob[jobID]
	out := make([]ShortlistEntry, len(entries))
	copy(out, entries)
	return out
}

// JobIDs returns the ranked job ids in lexical order.
func (s Shortlist) JobIDs() []string {
	ids := make([]string, 0, len(s.byJob))
	for id := range s.byJob {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns a copy of every job's entries.
func (s Shortlist) All() map[string][]ShortlistEntry {
	out := make(map[string][]ShortlistEntry, len(s.byJob))
	for id := range s.byJob {
		out[id] = s.Entries(id)
	}
	return out
}

// Excluded returns the results that could not be ranked because scoring failed.
func (s Shortlist) Excluded() []ScoreResult {
	out := make([]ScoreResult, len(s.excluded))
	copy(out, s.excluded)
	return out
}

// Len is the total number of ranked entries across jobs.
func (s Shortlist) Len() int {
	n := 0
	for _, entries := range s.byJob {
		n += len(entries)
	}
	return n
}
