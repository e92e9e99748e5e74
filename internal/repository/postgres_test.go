package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vanshika/creditlens/backend/internal/config"
)

// newTestPostgres connects to TEST_DATABASE_URL and skips when it is unset.
func newTestPostgres(t *testing.T) *PostgresRepository {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPostgresPool(ctx, config.PostgresConfig{URL: url, MaxConns: 4})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	repo := NewPostgresRepository(pool)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo
}

func TestPostgresRepository_RoundTrip(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()

	id := uuid.NewString()
	created := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	if err := repo.InsertReport(ctx, sampleReport(id, created)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() {
		_, _ = repo.db.Exec(context.Background(), "DELETE FROM credit_reports WHERE id = $1", id)
	})

	got, err := repo.GetReport(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.Equal(created) || got.BasicDetails.PAN != "AOZPB0247S" {
		t.Fatalf("unexpected report %+v", got)
	}
	if *got.CreditAccounts[0].CreditLimit != 50000 {
		t.Fatalf("unexpected credit limit %v", got.CreditAccounts[0].CreditLimit)
	}

	reports, err := repo.ListReports(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) == 0 || reports[0].ID != id {
		t.Fatalf("expected %s first in listing", id)
	}

	if err := repo.InsertReport(ctx, sampleReport(id, created)); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestPostgresRepository_NotFound(t *testing.T) {
	repo := newTestPostgres(t)
	if _, err := repo.GetReport(context.Background(), uuid.NewString()); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestInsertArgs_ScoreEncodesAsBigint(t *testing.T) {
	report := sampleReport("r-1", time.Date(2024, 10, 21, 9, 45, 12, 0, time.UTC))
	report.BasicDetails.CreditScore = 99999999999

	args := insertArgs(report, []byte(`{}`))
	if len(args) != 8 {
		t.Fatalf("expected 8 insert arguments, got %d", len(args))
	}
	score, ok := args[6].(int64)
	if !ok || score != 99999999999 {
		t.Fatalf("expected int64 score 99999999999, got %T %v", args[6], args[6])
	}
	if _, err := pgtype.NewMap().Encode(pgtype.Int8OID, pgtype.BinaryFormatCode, args[6], nil); err != nil {
		t.Fatalf("encode score as bigint: %v", err)
	}
}

func TestPostgresRepository_LargeCreditScore(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()

	id := uuid.NewString()
	report := sampleReport(id, time.Now().UTC().Truncate(time.Microsecond))
	report.BasicDetails.CreditScore = 99999999999
	if err := repo.InsertReport(ctx, report); err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() {
		_, _ = repo.db.Exec(context.Background(), "DELETE FROM credit_reports WHERE id = $1", id)
	})

	var stored int64
	if err := repo.db.QueryRow(ctx, "SELECT credit_score FROM credit_reports WHERE id = $1", id).Scan(&stored); err != nil {
		t.Fatalf("select score: %v", err)
	}
	if stored != 99999999999 {
		t.Fatalf("expected stored score 99999999999, got %d", stored)
	}
}
