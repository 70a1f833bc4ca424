package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/metrics"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/screening"
)

var (
	ErrNoSubmissions     = errors.New("no candidates found in sheet")
	ErrMissingField      = errors.New("missing required field")
	ErrResultsDisabled   = errors.New("result store not enabled")
	ErrSourceUnavailable = errors.New("submission source not configured")
)

// FileRequest is a single resume already on local disk.
type FileRequest struct {
	Name     string
	JobID    string
	Path     string
	Filename string
}

type FileOutcome struct {
	Result        screening.ScoreResult
	Record        screening.Record
	ShortlistFile string
}

type BatchOutcome struct {
	BatchID   uuid.UUID
	Results   []screening.ScoreResult
	Records   []screening.Record
	Shortlist screening.Shortlist
}

type ScreeningService interface {
	ScoreFile(ctx context.Context, req FileRequest) (*FileOutcome, error)
	RunBatch(ctx context.Context) (*BatchOutcome, error)
	Jobs() []screening.JobRequirement
	Results(ctx context.Context, jobID string, limit int) ([]models.ScoreRecord, error)
	BatchResults(ctx context.Context, batchID uuid.UUID) ([]models.ScoreRecord, error)
}

// Deps are the collaborators of the screening service. Source, Worker and
// Records are optional. BatchPlacers receive ranked batch files and default to
// Placers; uploads always go through Placers.
type Deps struct {
	Registry     *JobRegistry
	Scorer       screening.Scorer
	Selector     screening.Selector
	Source       SubmissionSource
	Worker       Worker
	Extractor    TextExtractor
	Sinks        *SinkGroup
	Placers      *PlacerGroup
	BatchPlacers *PlacerGroup
	Records      repositories.ScoreRecordRepository
	Log          *zap.Logger
	Metrics      *metrics.Manager
}

type screeningService struct {
	Deps
}

func NewScreeningService(deps Deps) ScreeningService {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Registry == nil {
		deps.Registry = NewJobRegistry(nil)
	}
	if deps.Sinks == nil {
		deps.Sinks = NewSinkGroup(deps.Log, deps.Metrics)
	}
	if deps.Placers == nil {
		deps.Placers = NewPlacerGroup(deps.Log, deps.Metrics)
	}
	if deps.BatchPlacers == nil {
		deps.BatchPlacers = deps.Placers
	}
	if deps.Extractor == nil {
		deps.Extractor = NewTextExtractor()
	}
	return &screeningService{Deps: deps}
}

// ScoreFile scores one resume. A shortlisted resume is placed as
// "<job_id>_<filename>". A file whose text cannot be extracted yields a failed
// record with score 0, the same as a failed download in a batch.
func (s *screeningService) ScoreFile(ctx context.Context, req FileRequest) (*FileOutcome, error) {
	req.JobID = strings.TrimSpace(req.JobID)
	if req.JobID == "" {
		return nil, fmt.Errorf("%w: job_id", ErrMissingField)
	}
	if req.Path == "" {
		return nil, fmt.Errorf("%w: cv_file", ErrMissingField)
	}
	if req.Filename == "" {
		req.Filename = filepath.Base(req.Path)
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = strings.TrimSuffix(req.Filename, filepath.Ext(req.Filename))
	}

	log := s.Log.With(logger.Candidate(req.Name, req.JobID)...)
	log.Info("📄 Scoring resume", zap.String("file", req.Filename))
	if !s.Registry.Known(req.JobID) {
		log.Warn("⚠️  Unknown job id, scoring against no required skills")
	}

	candidate := screening.Candidate{
		Name:           req.Name,
		JobID:          req.JobID,
		ResumeLocation: req.Filename,
	}

	text, err := s.Extractor.ExtractFile(req.Path)
	switch {
	case errors.Is(err, ErrNoTextContent):
		candidate = candidate.WithText("")
	case err != nil:
		log.Warn("⚠️  Failed to extract resume text", zap.Error(err))
		candidate = candidate.WithFailure(fmt.Sprintf("failed to extract text: %v", err))
	default:
		candidate = candidate.WithText(text)
	}

	result := s.Scorer.ScoreOne(candidate, s.Registry.Lookup(req.JobID))
	record := screening.Format(result)
	outcome := &FileOutcome{Result: result, Record: record}

	if result.Shortlisted {
		name := screening.UploadFilename(req.JobID, req.Filename)
		if s.Placers.Place(ctx, req.Path, name) > 0 {
			outcome.ShortlistFile = name
		}
	}

	s.Sinks.Persist(ctx, record)
	s.recordOutcome(result)

	log.Info("✅ Resume scored", zap.Int("score", result.Score), zap.Bool("shortlisted", result.Shortlisted))
	return outcome, nil
}

// RunBatch screens every submission from the source. Retrieval failures are
// reported per candidate; only a source failure aborts the run.
func (s *screeningService) RunBatch(ctx context.Context) (*BatchOutcome, error) {
	if s.Source == nil || s.Worker == nil {
		return nil, ErrSourceUnavailable
	}

	submissions, err := s.Source.FetchSubmissions(ctx)
	if err != nil {
		s.recordBatch("error", 0)
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	if len(submissions) == 0 {
		s.recordBatch("empty", 0)
		return nil, ErrNoSubmissions
	}

	batchID := uuid.New()
	ctx = WithBatchID(ctx, batchID)
	log := s.Log.With(logger.Batch(batchID))
	log.Info("🔄 Starting batch", zap.Int("submissions", len(submissions)))

	candidates := make([]screening.Candidate, 0, len(submissions))
	for _, sub := range submissions {
		candidates = append(candidates, sub.Candidate())
	}

	fetched := s.Worker.FetchAll(ctx, candidates)
	defer s.cleanup(log, fetched)

	// FetchAll may rewrite the candidate, so score what came back.
	localPaths := make(map[string]string, len(fetched))
	for i, f := range fetched {
		candidates[i] = f.Candidate
		if f.LocalPath != "" {
			localPaths[f.Candidate.ResumeLocation] = f.LocalPath
		}
	}

	results := s.Scorer.ScoreAll(candidates, s.Registry)
	records := screening.FormatAll(results)
	for i, rec := range records {
		s.Sinks.Persist(ctx, rec)
		s.recordOutcome(results[i])
	}

	shortlist := s.Selector.Select(results)
	for _, jobID := range shortlist.JobIDs() {
		for _, entry := range shortlist.Entries(jobID) {
			src, ok := localPaths[entry.ResumeLocation]
			if !ok {
				log.Warn("no working copy for shortlisted resume",
					zap.String("candidate", entry.CandidateName),
					zap.String("job_id", jobID))
				continue
			}
			s.BatchPlacers.Place(ctx, src, entry.AssignedFilename)
		}
	}

	s.recordBatch("ok", len(submissions))
	log.Info("✅ Batch completed",
		zap.Int("results", len(results)),
		zap.Int("shortlisted", shortlist.Len()),
		zap.Int("failed", len(shortlist.Excluded())))

	return &BatchOutcome{
		BatchID:   batchID,
		Results:   results,
		Records:   records,
		Shortlist: shortlist,
	}, nil
}

func (s *screeningService) Jobs() []screening.JobRequirement {
	return s.Registry.Jobs()
}

func (s *screeningService) Results(ctx context.Context, jobID string, limit int) ([]models.ScoreRecord, error) {
	if s.Records == nil {
		return nil, ErrResultsDisabled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Records.FindByJob(jobID, limit)
}

func (s *screeningService) BatchResults(ctx context.Context, batchID uuid.UUID) ([]models.ScoreRecord, error) {
	if s.Records == nil {
		return nil, ErrResultsDisabled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Records.FindByBatch(batchID)
}

func (s *screeningService) cleanup(log *zap.Logger, fetched []FetchedResume) {
	for _, f := range fetched {
		if f.LocalPath == "" {
			continue
		}
		if err := os.Remove(f.LocalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Debug("failed to remove working copy", zap.String("path", f.LocalPath), zap.Error(err))
		}
	}
}

func (s *screeningService) recordOutcome(r screening.ScoreResult) {
	if s.Metrics == nil {
		return
	}
	switch {
	case r.Failed():
		s.Metrics.RecordCandidate(metrics.OutcomeFailed)
	case r.Shortlisted:
		s.Metrics.RecordCandidate(metrics.OutcomeShortlisted)
	default:
		s.Metrics.RecordCandidate(metrics.OutcomeScored)
	}
}

func (s *screeningService) recordBatch(result string, size int) {
	if s.Metrics != nil {
		s.Metrics.RecordBatch(result, size)
	}
}
