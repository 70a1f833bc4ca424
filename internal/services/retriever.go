package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrNoRetriever     = errors.New("no retriever configured for location")
	ErrInvalidLocation = errors.New("invalid resume location")
)

// RetrievedFile is a downloaded resume before text extraction.
type RetrievedFile struct {
	Name     string
	MimeType string
	Data     []byte
}

type ResumeRetriever interface {
	Retrieve(ctx context.Context, location string) (*RetrievedFile, error)
}

// RouterOption configures the retriever router.
type RouterOption func(*retrieverRouter)

func WithDriveRetriever(r ResumeRetriever) RouterOption {
	return func(rr *retrieverRouter) { rr.drive = r }
}

func WithS3Retriever(r ResumeRetriever) RouterOption {
	return func(rr *retrieverRouter) { rr.s3 = r }
}

func WithHTTPRetriever(r ResumeRetriever) RouterOption {
	return func(rr *retrieverRouter) { rr.http = r }
}

func WithLocalRetriever(r ResumeRetriever) RouterOption {
	return func(rr *retrieverRouter) { rr.local = r }
}

type retrieverRouter struct {
	drive ResumeRetriever
	s3    ResumeRetriever
	http  ResumeRetriever
	local ResumeRetriever
}

// NewRetrieverRouter dispatches on the shape of the location: Drive links, then
// s3:// URLs, then other http(s) URLs, then local paths.
func NewRetrieverRouter(opts ...RouterOption) ResumeRetriever {
	r := &retrieverRouter{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *retrieverRouter) Retrieve(ctx context.Context, location string) (*RetrievedFile, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidLocation)
	}

	var target ResumeRetriever
	switch {
	case IsDriveLink(location):
		target = r.drive
	case strings.HasPrefix(location, "s3://"):
		target = r.s3
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		target = r.http
	default:
		target = r.local
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRetriever, location)
	}
	return target.Retrieve(ctx, location)
}

// IsDriveLink reports whether location points at Google Drive or Docs.
func IsDriveLink(location string) bool {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	return host == "drive.google.com" || host == "docs.google.com"
}

// DriveFileID pulls the file id out of a Drive link. It understands
// ".../d/<id>/...", "?id=<id>" and otherwise takes the second-to-last path
// segment.
func DriveFileID(link string) (string, error) {
	if i := strings.Index(link, "/d/"); i >= 0 {
		id := strings.SplitN(link[i+len("/d/"):], "/", 2)[0]
		id = strings.SplitN(id, "?", 2)[0]
		if id != "" {
			return id, nil
		}
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if id := u.Query().Get("id"); id != "" {
		return id, nil
	}

	segments := strings.Split(strings.TrimRight(u.Path, "/"), "/")
	if len(segments) >= 2 && segments[len(segments)-2] != "" {
		return segments[len(segments)-2], nil
	}
	return "", fmt.Errorf("%w: no drive file id in %q", ErrInvalidLocation, link)
}

type httpRetriever struct {
	client  *http.Client
	maxSize int64
}

// NewHTTPRetriever downloads resumes over plain HTTP(S). A nil client uses
// http.DefaultClient; maxSize of zero means no limit.
func NewHTTPRetriever(client *http.Client, maxSize int64) ResumeRetriever {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpRetriever{client: client, maxSize: maxSize}
}

func (h *httpRetriever) Retrieve(ctx context.Context, location string) (*RetrievedFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download resume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download resume: unexpected status %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if h.maxSize > 0 {
		body = io.LimitReader(resp.Body, h.maxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if h.maxSize > 0 && int64(len(data)) > h.maxSize {
		return nil, fmt.Errorf("resume exceeds %d bytes", h.maxSize)
	}

	return &RetrievedFile{
		Name:     httpFilename(resp, req.URL),
		MimeType: resp.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func httpFilename(resp *http.Response, u *url.URL) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			return filepath.Base(params["filename"])
		}
	}
	return path.Base(u.Path)
}

type localRetriever struct{}

// NewLocalRetriever reads resumes from the local filesystem.
func NewLocalRetriever() ResumeRetriever {
	return &localRetriever{}
}

func (l *localRetriever) Retrieve(ctx context.Context, location string) (*RetrievedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := strings.TrimPrefix(location, "file://")
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return &RetrievedFile{Name: filepath.Base(p), Data: data}, nil
}
