package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/vanshika/creditlens/backend/internal/experian"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestImporter_ImportDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.xml", minimalReport)
	writeFile(t, dir, "a.xml", minimalReport)
	writeFile(t, dir, "c.XML", "<Other/>")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, ".hidden.xml", minimalReport)
	if err := os.Mkdir(filepath.Join(dir, "nested.xml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	repo := &stubRepository{}
	svc := NewReportService(repo, nil, 0)
	n := 0
	svc.WithIDGenerator(func() string {
		n++
		return "r-" + strconv.Itoa(n)
	})

	imported, err := NewImporter(svc, nil).ImportDir(context.Background(), dir)
	if len(imported) != 2 {
		t.Fatalf("expected 2 imported reports, got %d", len(imported))
	}
	if imported[0].ID != "r-1" || imported[1].ID != "r-2" {
		t.Fatalf("expected lexical file order, got %s, %s", imported[0].ID, imported[1].ID)
	}

	var importErr *ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("expected *ImportError, got %v", err)
	}
	if len(importErr.Errors) != 1 {
		t.Fatalf("expected 1 failure, got %d: %v", len(importErr.Errors), importErr)
	}
	if !errors.Is(err, experian.ErrMissingRootElement) {
		t.Fatalf("expected missing root failure to be reachable, got %v", err)
	}
	if len(repo.inserted) != 2 {
		t.Fatalf("expected 2 stored reports, got %d", len(repo.inserted))
	}
}

func TestImporter_ImportDirAllSucceed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.xml", minimalReport)

	imported, err := NewImporter(NewReportService(&stubRepository{}, nil, 0), nil).ImportDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(imported) != 1 {
		t.Fatalf("expected 1 report, got %d", len(imported))
	}
}

func TestImporter_ImportDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.xml", minimalReport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &stubRepository{}
	_, err := NewImporter(NewReportService(repo, nil, 0), nil).ImportDir(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatal("no report should be stored after cancellation")
	}
}

func TestImporter_ImportFileMissing(t *testing.T) {
	im := NewImporter(NewReportService(&stubRepository{}, nil, 0), nil)
	_, err := im.ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.xml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestImportError_Message(t *testing.T) {
	var e ImportError
	if e.asError() != nil {
		t.Fatal("empty ImportError must be nil")
	}
	e.append(nil)
	e.append(errors.New("a.xml: bad"))
	if e.Error() != "a.xml: bad" {
		t.Fatalf("unexpected single message %q", e.Error())
	}
	e.append(errors.New("b.xml: bad"))
	if e.Error() != "2 files failed: a.xml: bad; b.xml: bad;" {
		t.Fatalf("unexpected message %q", e.Error())
	}
}
