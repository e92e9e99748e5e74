package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanshika/creditlens/backend/internal/config"
	"github.com/vanshika/creditlens/backend/internal/domain"
)

const uniqueViolation = "23505"

// PostgresRepository persists reports in a credit_reports table. The
// normalized record lives in a jsonb payload; identity, timestamps and a few
// lookup columns are stored alongside it.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresPool opens a connection pool and checks the database responds.
func NewPostgresPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewPostgresRepository creates a repository on top of an open pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the reports table and its ordering index.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createReportsTableSQL); err != nil {
		return fmt.Errorf("create credit_reports table: %w", err)
	}
	return nil
}

// InsertReport stores a new report row.
func (r *PostgresRepository) InsertReport(ctx context.Context, report domain.StoredReport) error {
	if err := validateForInsert(report); err != nil {
		return err
	}
	payload, err := encodePayload(report.CreditReport)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, insertReportSQL, insertArgs(report, payload)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert report %s: %w", report.ID, err)
	}
	return nil
}

// insertArgs orders the values for insertReportSQL. The score is passed as
// int64 because the extractor does not bound it.
func insertArgs(report domain.StoredReport, payload []byte) []any {
	return []any{
		report.ID,
		report.CreatedAt.UTC(),
		report.ReportNumber,
		report.ReportDate,
		report.BasicDetails.Name,
		report.BasicDetails.PAN,
		int64(report.BasicDetails.CreditScore),
		payload,
	}
}

// ListReports returns every report ordered by creation time, newest first.
func (r *PostgresRepository) ListReports(ctx context.Context) ([]domain.StoredReport, error) {
	rows, err := r.db.Query(ctx, listReportsSQL)
	if err != nil {
		return nil, fmt.Errorf("list reports query: %w", err)
	}
	defer rows.Close()

	reports := []domain.StoredReport{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

// GetReport fetches a single report by identity.
func (r *PostgresRepository) GetReport(ctx context.Context, id string) (domain.StoredReport, error) {
	report, err := scanReport(r.db.QueryRow(ctx, getReportSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StoredReport{}, ErrReportNotFound
	}
	if err != nil {
		return domain.StoredReport{}, fmt.Errorf("get report %s: %w", id, err)
	}
	return report, nil
}

// Ping checks the database is reachable.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close releases every pooled connection.
func (r *PostgresRepository) Close(context.Context) error {
	r.db.Close()
	return nil
}

func scanReport(row pgx.Row) (domain.StoredReport, error) {
	var (
		id        string
		createdAt time.Time
		payload   []byte
	)
	if err := row.Scan(&id, &createdAt, &payload); err != nil {
		return domain.StoredReport{}, err
	}
	return decodePayload(id, createdAt, payload)
}

const createReportsTableSQL = `
CREATE TABLE IF NOT EXISTS credit_reports (
    id             TEXT PRIMARY KEY,
    created_at     TIMESTAMPTZ NOT NULL,
    report_number  TEXT NOT NULL,
    report_date    TEXT NOT NULL,
    applicant_name TEXT NOT NULL,
    pan            TEXT NOT NULL DEFAULT '',
    credit_score   BIGINT NOT NULL DEFAULT 0,
    payload        JSONB NOT NULL
);
ALTER TABLE credit_reports ALTER COLUMN credit_score TYPE BIGINT;
CREATE INDEX IF NOT EXISTS credit_reports_created_at_idx ON credit_reports (created_at DESC);
`

const insertReportSQL = `
INSERT INTO credit_reports (id, created_at, report_number, report_date, applicant_name, pan, credit_score, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

const listReportsSQL = `
SELECT id, created_at, payload
FROM credit_reports
ORDER BY created_at DESC, id
`

const getReportSQL = `
SELECT id, created_at, payload
FROM credit_reports
WHERE id = $1
`
