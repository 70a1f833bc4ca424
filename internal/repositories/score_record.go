package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/cv-screener/internal/models"
)

type ScoreRecordRepository interface {
	Create(record *models.ScoreRecord) error
	FindByJob(jobID string, limit int) ([]models.ScoreRecord, error)
	FindByBatch(batchID uuid.UUID) ([]models.ScoreRecord, error)
}

type scoreRecordRepository struct {
	db *gorm.DB
}

func NewScoreRecordRepository(db *gorm.DB) ScoreRecordRepository {
	return &scoreRecordRepository{db: db}
}

func (r *scoreRecordRepository) Create(record *models.ScoreRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create score record: %w", err)
	}
	return nil
}

// FindByJob returns the newest records for a job, highest score first.
func (r *scoreRecordRepository) FindByJob(jobID string, limit int) ([]models.ScoreRecord, error) {
	var records []models.ScoreRecord
	q := r.db.
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Order("score DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find score records: %w", err)
	}
	return records, nil
}

func (r *scoreRecordRepository) FindByBatch(batchID uuid.UUID) ([]models.ScoreRecord, error) {
	var records []models.ScoreRecord
	err := r.db.
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find batch records: %w", err)
	}
	return records, nil
}
