package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"alfredoptarigan/cv-screener/internal/config"
)

// DriveService downloads resumes from Google Drive and uploads shortlisted
// ones into a folder.
type DriveService interface {
	ResumeRetriever
	FilePlacer
}

type driveService struct {
	files    *drive.FilesService
	folderID string
	maxSize  int64
}

func NewDriveService(ctx context.Context, cfg config.GoogleConfig, maxSize int64, opts ...option.ClientOption) (DriveService, error) {
	if cfg.CredentialsPath != "" {
		opts = append([]option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsPath),
			option.WithScopes(drive.DriveScope),
		}, opts...)
	}

	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	return &driveService{
		files:    srv.Files,
		folderID: cfg.DriveFolderID,
		maxSize:  maxSize,
	}, nil
}

func (d *driveService) Name() string { return "drive" }

func (d *driveService) Retrieve(ctx context.Context, location string) (*RetrievedFile, error) {
	fileID, err := DriveFileID(location)
	if err != nil {
		return nil, err
	}

	meta, err := d.files.Get(fileID).
		Fields("name", "mimeType").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get drive file metadata: %w", err)
	}

	resp, err := d.files.Get(fileID).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download drive file: %w", err)
	}
	defer resp.Body.Close()

	body := io.Reader(resp.Body)
	if d.maxSize > 0 {
		body = io.LimitReader(resp.Body, d.maxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive file: %w", err)
	}
	if d.maxSize > 0 && int64(len(data)) > d.maxSize {
		return nil, fmt.Errorf("resume exceeds %d bytes", d.maxSize)
	}

	return &RetrievedFile{
		Name:     meta.Name,
		MimeType: meta.MimeType,
		Data:     data,
	}, nil
}

// Place uploads the file into the configured folder under filename.
func (d *driveService) Place(ctx context.Context, srcPath, filename string) error {
	if err := ValidateFilename(filename); err != nil {
		return err
	}
	if d.folderID == "" {
		return fmt.Errorf("drive folder not configured")
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	_, err = d.files.Create(&drive.File{
		Name:    filename,
		Parents: []string{d.folderID},
	}).
		Media(f).
		Fields("id", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to upload to drive: %w", err)
	}
	return nil
}
