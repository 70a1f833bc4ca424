package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"alfredoptarigan/cv-screener/internal/screening"
	"alfredoptarigan/cv-screener/internal/services"
)

// mapRetriever serves files by location. A location listed in failures fails
// that many times before it succeeds.
type mapRetriever struct {
	mu       sync.Mutex
	files    map[string]*services.RetrievedFile
	failures map[string]int
	calls    map[string]int
}

func newMapRetriever() *mapRetriever {
	return &mapRetriever{
		files:    map[string]*services.RetrievedFile{},
		failures: map[string]int{},
		calls:    map[string]int{},
	}
}

func (m *mapRetriever) add(location, name, text string) {
	m.files[location] = &services.RetrievedFile{Name: name, MimeType: "text/plain", Data: []byte(text)}
}

func (m *mapRetriever) Retrieve(ctx context.Context, location string) (*services.RetrievedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[location]++
	if m.failures[location] > 0 {
		m.failures[location]--
		return nil, errors.New("connection reset")
	}
	f, ok := m.files[location]
	if !ok {
		return nil, errors.New("object not found")
	}
	return f, nil
}

func (m *mapRetriever) callCount(location string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[location]
}

type stubSource struct {
	submissions []services.Submission
	err         error
}

func (s stubSource) FetchSubmissions(context.Context) ([]services.Submission, error) {
	return s.submissions, s.err
}

type recordingSink struct {
	mu      sync.Mutex
	name    string
	err     error
	records []screening.Record
	ctxs    []context.Context
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Persist(ctx context.Context, rec screening.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	s.ctxs = append(s.ctxs, ctx)
	return nil
}

type recordingPlacer struct {
	name   string
	err    error
	placed []string
}

func (p *recordingPlacer) Name() string { return p.name }

func (p *recordingPlacer) Place(_ context.Context, _ string, filename string) error {
	if p.err != nil {
		return p.err
	}
	p.placed = append(p.placed, filename)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
