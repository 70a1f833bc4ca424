package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/metrics"
)

// FilePlacer stores a shortlisted resume under its assigned name.
type FilePlacer interface {
	Name() string
	Place(ctx context.Context, srcPath, filename string) error
}

type localPlacer struct {
	dir string
}

// NewLocalPlacer copies shortlisted files into dir.
func NewLocalPlacer(dir string) FilePlacer {
	return &localPlacer{dir: dir}
}

func (p *localPlacer) Name() string { return "local" }

func (p *localPlacer) Place(ctx context.Context, srcPath, filename string) error {
	if err := ValidateFilename(filename); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fmt.Errorf("failed to create shortlist directory: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(p.dir, filename))
	if err != nil {
		return fmt.Errorf("failed to create shortlist file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy shortlist file: %w", err)
	}
	return nil
}

// PlacerGroup hands a file to every placer. Failures are logged and counted,
// never returned.
type PlacerGroup struct {
	placers []FilePlacer
	log     *zap.Logger
	metrics *metrics.Manager
}

func NewPlacerGroup(log *zap.Logger, m *metrics.Manager, placers ...FilePlacer) *PlacerGroup {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlacerGroup{placers: placers, log: log, metrics: m}
}

// Place returns how many placers stored the file.
func (g *PlacerGroup) Place(ctx context.Context, srcPath, filename string) int {
	placed := 0
	for _, p := range g.placers {
		if err := p.Place(ctx, srcPath, filename); err != nil {
			g.log.Warn("failed to place shortlisted file",
				zap.String("placer", p.Name()),
				zap.String("filename", filename),
				zap.Error(err))
			if g.metrics != nil {
				g.metrics.RecordPlacementFailure(p.Name())
			}
			continue
		}
		placed++
	}
	return placed
}
