package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/metrics"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/screening"
)

// ResultSink receives every formatted record.
type ResultSink interface {
	Name() string
	Persist(ctx context.Context, rec screening.Record) error
}

type batchIDKey struct{}

// WithBatchID tags ctx with the batch run a record belongs to.
func WithBatchID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, batchIDKey{}, id)
}

func BatchIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(batchIDKey{}).(uuid.UUID)
	return id, ok
}

// SinkGroup fans a record out to every sink. A failing sink is logged and
// counted; it never affects the record or the other sinks.
type SinkGroup struct {
	sinks   []ResultSink
	log     *zap.Logger
	metrics *metrics.Manager
}

func NewSinkGroup(log *zap.Logger, m *metrics.Manager, sinks ...ResultSink) *SinkGroup {
	if log == nil {
		log = zap.NewNop()
	}
	return &SinkGroup{sinks: sinks, log: log, metrics: m}
}

// Persist returns the number of sinks that accepted the record.
func (g *SinkGroup) Persist(ctx context.Context, rec screening.Record) int {
	stored := 0
	for _, s := range g.sinks {
		if err := s.Persist(ctx, rec); err != nil {
			g.log.Warn("failed to persist result",
				zap.String("sink", s.Name()),
				zap.String("candidate", rec.Name),
				zap.String("job_id", rec.JobID),
				zap.Error(err))
			if g.metrics != nil {
				g.metrics.RecordSinkFailure(s.Name())
			}
			continue
		}
		stored++
	}
	return stored
}

type dbSink struct {
	repo repositories.ScoreRecordRepository
}

// NewDBSink stores records in Postgres through repo.
func NewDBSink(repo repositories.ScoreRecordRepository) ResultSink {
	return &dbSink{repo: repo}
}

func (s *dbSink) Name() string { return "postgres" }

func (s *dbSink) Persist(ctx context.Context, rec screening.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.repo.Create(ScoreRecordFrom(ctx, rec)); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

// ScoreRecordFrom maps a formatted record onto its database row.
func ScoreRecordFrom(ctx context.Context, rec screening.Record) *models.ScoreRecord {
	row := &models.ScoreRecord{
		CandidateName: rec.Name,
		JobID:         rec.JobID,
		Score:         rec.Score,
		MatchedSkills: rec.MatchedSkills,
		Shortlisted:   rec.Shortlisted == screening.ShortlistedYes,
		Status:        models.StatusScored,
	}
	if rec.Error != "" {
		msg := rec.Error
		row.Status = models.StatusFailed
		row.ErrorMessage = &msg
	}
	if id, ok := BatchIDFrom(ctx); ok {
		row.BatchID = &id
	}
	return row
}
