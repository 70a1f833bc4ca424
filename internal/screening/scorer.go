package screening

// DefaultShortlistThreshold is the minimum score that marks a result as
// shortlisted.
const DefaultShortlistThreshold = 3

const msgResumeUnavailable = "resume text unavailable"

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithThreshold overrides DefaultShortlistThreshold. Negative values are ignored.
func WithThreshold(threshold int) ScorerOption {
	return func(s *Scorer) {
		if threshold >= 0 {
			s.threshold = threshold
		}
	}
}

// WithMatcher replaces the default distinct-count matcher.
func WithMatcher(m Matcher) ScorerOption {
	return func(s *Scorer) {
		s.matcher = m
	}
}

// Scorer applies a Matcher to candidates and marks provisional shortlist status.
type Scorer struct {
	matcher   Matcher
	threshold int
}

func NewScorer(opts ...ScorerOption) Scorer {
	s := Scorer{
		matcher:   NewMatcher(ScoreDistinct),
		threshold: DefaultShortlistThreshold,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s Scorer) Threshold() int {
	return s.threshold
}

// ScoreOne scores a single candidate against the given requirement.
func (s Scorer) ScoreOne(c Candidate, req JobRequirement) ScoreResult {
	if c.ResumeText == nil {
		reason := c.RetrievalError
		if reason == "" {
			reason = msgResumeUnavailable
		}
		return ScoreResult{
			CandidateName:  c.Name,
			JobID:          c.JobID,
			Score:          0,
			MatchedSkills:  []string{},
			Shortlisted:    false,
			Status:         StatusFailed,
			Error:          reason,
			ResumeLocation: c.ResumeLocation,
		}
	}

	score, matched := s.matcher.Match(*c.ResumeText, req.RequiredSkills)
	return ScoreResult{
		CandidateName:  c.Name,
		JobID:          c.JobID,
		Score:          score,
		MatchedSkills:  matched,
		Shortlisted:    score >= s.threshold,
		Status:         StatusScored,
		ResumeLocation: c.ResumeLocation,
	}
}

// ScoreAll scores candidates in input order. Repeat submissions are kept.
func (s Scorer) ScoreAll(candidates []Candidate, lookup RequirementLookup) []ScoreResult {
	results := make([]ScoreResult, 0, len(candidates))
	for _, c := range candidates {
		var req JobRequirement
		if lookup != nil {
			req = lookup.Lookup(c.JobID)
		}
		results = append(results, s.ScoreOne(c, req))
	}
	return results
}
