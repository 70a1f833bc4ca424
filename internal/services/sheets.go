package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/screening"
)

// Submission is one form response: who applied, for what, and where the
// resume lives.
type Submission struct {
	Name       string `json:"name"`
	JobID      string `json:"job_id"`
	ResumeLink string `json:"cv_link"`
}

// Candidate turns the submission into an unscored candidate.
func (s Submission) Candidate() screening.Candidate {
	return screening.Candidate{
		Name:           s.Name,
		JobID:          s.JobID,
		ResumeLocation: s.ResumeLink,
	}
}

type SubmissionSource interface {
	FetchSubmissions(ctx context.Context) ([]Submission, error)
}

// SheetsService reads submissions from the form responses sheet and appends
// result rows to the results range.
type SheetsService interface {
	SubmissionSource
	ResultSink
}

type sheetsService struct {
	values           *sheets.SpreadsheetsValuesService
	sheetID          string
	submissionsRange string
	resultsRange     string
}

func NewSheetsService(ctx context.Context, cfg config.GoogleConfig, opts ...option.ClientOption) (SheetsService, error) {
	if cfg.SheetID == "" {
		return nil, fmt.Errorf("google sheet id is required")
	}
	if cfg.CredentialsPath != "" {
		opts = append([]option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsPath),
			option.WithScopes(sheets.SpreadsheetsScope),
		}, opts...)
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &sheetsService{
		values:           srv.Spreadsheets.Values,
		sheetID:          cfg.SheetID,
		submissionsRange: cfg.SubmissionsRange,
		resultsRange:     cfg.ResultsRange,
	}, nil
}

func (s *sheetsService) FetchSubmissions(ctx context.Context) ([]Submission, error) {
	resp, err := s.values.Get(s.sheetID, s.submissionsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch form responses: %w", err)
	}
	return ParseSubmissionRows(resp.Values), nil
}

func (s *sheetsService) Name() string { return "sheets" }

// Persist appends one result row.
func (s *sheetsService) Persist(ctx context.Context, rec screening.Record) error {
	body := &sheets.ValueRange{Values: [][]interface{}{rec.Row()}}

	_, err := s.values.Append(s.sheetID, s.resultsRange, body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append result row: %w", err)
	}
	return nil
}

// ParseSubmissionRows skips the header row and any row without a non-empty
// name, job id and resume link in its first three columns.
func ParseSubmissionRows(rows [][]interface{}) []Submission {
	if len(rows) <= 1 {
		return nil
	}

	submissions := make([]Submission, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		name, jobID, link := cell(row[0]), cell(row[1]), cell(row[2])
		if name == "" || jobID == "" || link == "" {
			continue
		}
		submissions = append(submissions, Submission{
			Name:       name,
			JobID:      jobID,
			ResumeLink: link,
		})
	}
	return submissions
}

func cell(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
