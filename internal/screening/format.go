package screening

import "strings"

// Record is the flat shape written to the results sheet and returned by the API.
type Record struct {
	Name          string `json:"name"`
	JobID         string `json:"job_id"`
	Score         int    `json:"score"`
	Shortlisted   string `json:"shortlisted"`
	MatchedSkills string `json:"matched_skills"`
	Error         string `json:"error,omitempty"`

	// ResumeLink is where the resume came from. It only appears in sheet rows.
	ResumeLink string `json:"-"`
}

const (
	ShortlistedYes = "Yes"
	ShortlistedNo  = "No"
)

func yesNo(b bool) string {
	if b {
		return ShortlistedYes
	}
	return ShortlistedNo
}

// Format projects a result onto a Record.
func Format(r ScoreResult) Record {
	return Record{
		Name:          r.CandidateName,
		JobID:         r.JobID,
		Score:         r.Score,
		Shortlisted:   yesNo(r.Shortlisted),
		MatchedSkills: strings.Join(r.MatchedSkills, ","),
		Error:         r.Error,
		ResumeLink:    r.ResumeLocation,
	}
}

// FormatAll formats results in order.
func FormatAll(results []ScoreResult) []Record {
	records := make([]Record, 0, len(results))
	for _, r := range results {
		records = append(records, Format(r))
	}
	return records
}

// Row is the spreadsheet row: name, job_id, cv_link, score, shortlisted,
// matched_skills, error. The first six columns match the legacy Results!A:F
// layout so existing sheets keep lining up.
func (r Record) Row() []interface{} {
	return []interface{}{r.Name, r.JobID, r.ResumeLink, r.Score, r.Shortlisted, r.MatchedSkills, r.Error}
}

// Map returns the record as a flat key/value mapping. The error key is only
// present for failed results.
func (r Record) Map() map[string]interface{} {
	m := map[string]interface{}{
		"name":           r.Name,
		"job_id":         r.JobID,
		"score":          r.Score,
		"shortlisted":    r.Shortlisted,
		"matched_skills": r.MatchedSkills,
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	return m
}
