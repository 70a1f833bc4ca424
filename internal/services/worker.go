package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/metrics"
	"alfredoptarigan/cv-screener/internal/screening"
)

// FetchedResume is a candidate after retrieval. LocalPath is the working copy
// used to place shortlisted files; it is empty when retrieval failed.
type FetchedResume struct {
	Candidate screening.Candidate
	LocalPath string
}

// Worker retrieves and extracts resumes for a batch with a bounded pool.
type Worker interface {
	FetchAll(ctx context.Context, candidates []screening.Candidate) []FetchedResume
}

type WorkerOption func(*worker)

func WithConcurrency(n int) WorkerOption {
	return func(w *worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithRetries sets how many times a retrieval is attempted in total.
func WithRetries(maxAttempts int) WorkerOption {
	return func(w *worker) {
		if maxAttempts > 0 {
			w.maxAttempts = maxAttempts
		}
	}
}

// WithFetchTimeout bounds each retrieval attempt.
func WithFetchTimeout(d time.Duration) WorkerOption {
	return func(w *worker) {
		if d > 0 {
			w.timeout = d
		}
	}
}

func WithBackoff(d time.Duration) WorkerOption {
	return func(w *worker) {
		if d >= 0 {
			w.backoff = d
		}
	}
}

func WithWorkerLogger(log *zap.Logger) WorkerOption {
	return func(w *worker) {
		if log != nil {
			w.log = log
		}
	}
}

func WithWorkerMetrics(m *metrics.Manager) WorkerOption {
	return func(w *worker) { w.metrics = m }
}

type fetchJob struct {
	index     int
	candidate screening.Candidate
}

type worker struct {
	retriever ResumeRetriever
	extractor TextExtractor
	storage   StorageService

	concurrency int
	maxAttempts int
	timeout     time.Duration
	backoff     time.Duration

	log     *zap.Logger
	metrics *metrics.Manager
}

// NewWorker builds a fetch pool. storage may be nil, in which case nothing is
// kept on disk and no shortlisted files can be placed.
func NewWorker(retriever ResumeRetriever, extractor TextExtractor, storage StorageService, opts ...WorkerOption) Worker {
	w := &worker{
		retriever:   retriever,
		extractor:   extractor,
		storage:     storage,
		concurrency: 3,
		maxAttempts: 3,
		timeout:     30 * time.Second,
		backoff:     500 * time.Millisecond,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FetchAll returns one FetchedResume per candidate, in input order.
func (w *worker) FetchAll(ctx context.Context, candidates []screening.Candidate) []FetchedResume {
	results := make([]FetchedResume, len(candidates))
	if len(candidates) == 0 {
		return results
	}

	workers := w.concurrency
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobQueue := make(chan fetchJob)
	var wg sync.WaitGroup

	w.log.Debug("starting fetch workers", zap.Int("workers", workers), zap.Int("candidates", len(candidates)))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobQueue {
				results[job.index] = w.fetchOne(ctx, workerID, job.candidate)
			}
		}(i + 1)
	}

	for i, c := range candidates {
		jobQueue <- fetchJob{index: i, candidate: c}
	}
	close(jobQueue)
	wg.Wait()

	return results
}

func (w *worker) fetchOne(ctx context.Context, workerID int, c screening.Candidate) FetchedResume {
	log := w.log.With(logger.Candidate(c.Name, c.JobID)...).With(zap.Int("worker", workerID))

	start := time.Now()
	file, err := w.retrieve(ctx, log, c.ResumeLocation)
	if w.metrics != nil {
		w.metrics.ObserveRetrieval(time.Since(start))
	}
	if err != nil {
		log.Warn("failed to retrieve resume", zap.String("location", c.ResumeLocation), zap.Error(err))
		return FetchedResume{Candidate: c.WithFailure(err.Error())}
	}

	text, err := w.extractor.Extract(file.Data, file.Name, file.MimeType)
	switch {
	case errors.Is(err, ErrNoTextContent):
		log.Info("resume has no extractable text")
		text = ""
	case err != nil:
		log.Warn("failed to extract resume text", zap.Error(err))
		return FetchedResume{Candidate: c.WithFailure(fmt.Sprintf("failed to extract text: %v", err))}
	}

	fetched := FetchedResume{Candidate: c.WithText(text)}
	if w.storage != nil {
		path, err := w.storage.SaveBytes("batch", file.Name, file.Data)
		if err != nil {
			log.Warn("failed to keep working copy", zap.Error(err))
		} else {
			fetched.LocalPath = path
		}
	}

	log.Debug("resume fetched",
		zap.Int("text_length", len(text)),
		zap.String("preview", logger.Truncate(text, 80)))
	return fetched
}

func (w *worker) retrieve(ctx context.Context, log *zap.Logger, location string) (*RetrievedFile, error) {
	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, w.timeout)
		file, err := w.retriever.Retrieve(attemptCtx, location)
		cancel()
		if err == nil {
			return file, nil
		}
		lastErr = err

		if !retryable(err) || attempt == w.maxAttempts {
			break
		}

		wait := w.backoff * time.Duration(attempt)
		log.Debug("retrying resume retrieval", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidLocation),
		errors.Is(err, ErrNoRetriever),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}
