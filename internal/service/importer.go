package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vanshika/creditlens/backend/internal/domain"
)

// ImportError accumulates per-file failures produced while importing a batch.
type ImportError struct {
	Errors []error
}

func (e *ImportError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d files failed:", len(e.Errors))
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *ImportError) Unwrap() []error {
	return e.Errors
}

func (e *ImportError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *ImportError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Importer feeds report files from disk through ReportService.Upload, one
// document at a time.
type Importer struct {
	service *ReportService
	logger  *slog.Logger
}

// NewImporter creates an Importer. A nil logger discards output.
func NewImporter(svc *ReportService, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Importer{service: svc, logger: logger}
}

// ImportFile uploads a single file from disk.
func (im *Importer) ImportFile(ctx context.Context, path string) (domain.StoredReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.StoredReport{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stored, err := im.service.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return domain.StoredReport{}, fmt.Errorf("import %s: %w", path, err)
	}
	im.logger.Info("report imported",
		"file", path,
		"reportId", stored.ID,
		"accounts", len(stored.CreditAccounts),
	)
	return stored, nil
}

// ImportDir uploads every .xml file directly inside dir in lexical order.
// Failures are collected and returned together as an *ImportError; a
// cancelled context stops the run immediately.
func (im *Importer) ImportDir(ctx context.Context, dir string) ([]domain.StoredReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !IsXMLFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var (
		imported  []domain.StoredReport
		importErr ImportError
	)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		stored, err := im.ImportFile(ctx, filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return imported, err
			}
			im.logger.Warn("report import failed", "file", name, "error", err)
			importErr.append(err)
			continue
		}
		imported = append(imported, stored)
	}
	return imported, importErr.asError()
}
