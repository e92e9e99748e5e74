package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/creditlens/backend/internal/domain"
	"github.com/vanshika/creditlens/backend/internal/experian"
)

// DefaultMaxUploadBytes bounds a single uploaded document.
const DefaultMaxUploadBytes int64 = 10 << 20

var (
	// ErrNoFile is returned when an upload carries no document.
	ErrNoFile = errors.New("no file uploaded")
	// ErrUnsupportedFileType is returned for uploads without an .xml extension.
	ErrUnsupportedFileType = errors.New("only XML files are allowed")
	// ErrFileTooLarge is returned when an upload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds upload size limit")
	// ErrInvalidReport wraps extractor failures so callers can map them to a client error.
	ErrInvalidReport = errors.New("invalid credit report")
	// ErrMissingReportID is returned when a lookup is attempted without an identity.
	ErrMissingReportID = errors.New("report id is required")
)

// ReportRepository is the storage contract required by the report service.
type ReportRepository interface {
	InsertReport(ctx context.Context, report domain.StoredReport) error
	ListReports(ctx context.Context) ([]domain.StoredReport, error)
	GetReport(ctx context.Context, id string) (domain.StoredReport, error)
	Ping(ctx context.Context) error
}

// Extractor turns a raw bureau document into a CreditReport.
type Extractor interface {
	Extract(data []byte) (domain.CreditReport, error)
}

// ReportService validates uploads, runs extraction and hands the result to the store
// with a freshly assigned identity and creation time.
type ReportService struct {
	repo      ReportRepository
	extractor Extractor
	maxBytes  int64
	nowFn     func() time.Time
	newID     func() string
}

// NewReportService constructs a ReportService. A nil extractor falls back to the
// Experian extractor; a non-positive maxBytes uses DefaultMaxUploadBytes.
func NewReportService(repo ReportRepository, extractor Extractor, maxBytes int64) *ReportService {
	if extractor == nil {
		extractor = experian.Extractor{}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &ReportService{
		repo:      repo,
		extractor: extractor,
		maxBytes:  maxBytes,
		nowFn:     time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *ReportService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// WithIDGenerator overrides identity generation (used primarily in tests).
func (s *ReportService) WithIDGenerator(newID func() string) {
	if newID != nil {
		s.newID = newID
	}
}

// MaxBytes reports the upload size limit enforced by Upload.
func (s *ReportService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload reads one document, extracts it and stores the result.
func (s *ReportService) Upload(ctx context.Context, filename string, r io.Reader) (domain.StoredReport, error) {
	if r == nil {
		return domain.StoredReport{}, ErrNoFile
	}
	if !IsXMLFile(filename) {
		return domain.StoredReport{}, ErrUnsupportedFileType
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return domain.StoredReport{}, fmt.Errorf("read upload %s: %w", filename, err)
	}
	if int64(len(data)) > s.maxBytes {
		return domain.StoredReport{}, ErrFileTooLarge
	}

	report, err := s.extractor.Extract(data)
	if err != nil {
		return domain.StoredReport{}, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	stored := domain.StoredReport{
		ID:           s.newID(),
		CreatedAt:    s.nowFn().UTC(),
		CreditReport: report,
	}
	if err := s.repo.InsertReport(ctx, stored); err != nil {
		return domain.StoredReport{}, fmt.Errorf("store report: %w", err)
	}
	return stored, nil
}

// ListReports returns every stored report, newest first.
func (s *ReportService) ListReports(ctx context.Context) ([]domain.StoredReport, error) {
	reports, err := s.repo.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if reports == nil {
		reports = []domain.StoredReport{}
	}
	return reports, nil
}

// GetReport returns one stored report. Missing reports surface the
// repository's not-found error unchanged.
func (s *ReportService) GetReport(ctx context.Context, id string) (domain.StoredReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.StoredReport{}, ErrMissingReportID
	}
	return s.repo.GetReport(ctx, id)
}

// Probe checks the backing store.
func (s *ReportService) Probe(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// IsXMLFile reports whether name carries an .xml extension, ignoring case.
func IsXMLFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xml")
}
