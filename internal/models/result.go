package models

import (
	"alfredoptarigan/cv-screener/internal/screening"
)

type ProcessResponse struct {
	screening.Record
	Status        string `json:"status"`
	ShortlistFile string `json:"shortlist_file,omitempty"`
}

type BatchResponse struct {
	BatchID   string                                `json:"batch_id"`
	Records   []screening.Record                    `json:"records"`
	Shortlist map[string][]screening.ShortlistEntry `json:"shortlist"`
	Excluded  []string                              `json:"excluded"`
}

type ResultsResponse struct {
	JobID   string        `json:"job_id"`
	Results []ScoreRecord `json:"results"`
}

type BatchResultsResponse struct {
	BatchID string        `json:"batch_id"`
	Results []ScoreRecord `json:"results"`
}

type JobResponse struct {
	JobID          string   `json:"job_id"`
	RequiredSkills []string `json:"required_skills"`
}
