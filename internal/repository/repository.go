package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vanshika/creditlens/backend/internal/domain"
)

var (
	// ErrReportNotFound is returned when no report matches the requested identity.
	ErrReportNotFound = errors.New("report not found")
	// ErrMissingID is returned when a report without an identity is inserted.
	ErrMissingID = errors.New("report id is required")
	// ErrDuplicateID is returned when an identity is already taken.
	ErrDuplicateID = errors.New("report id already exists")
)

// encodePayload serializes the report body stored alongside the indexed columns.
func encodePayload(report domain.CreditReport) ([]byte, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode report payload: %w", err)
	}
	return payload, nil
}

func decodePayload(id string, createdAt time.Time, payload []byte) (domain.StoredReport, error) {
	var report domain.CreditReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return domain.StoredReport{}, fmt.Errorf("decode report %s payload: %w", id, err)
	}
	if report.CreditAccounts == nil {
		report.CreditAccounts = []domain.CreditAccount{}
	}
	return domain.StoredReport{
		ID:           id,
		CreatedAt:    createdAt.UTC(),
		CreditReport: report,
	}, nil
}

func validateForInsert(report domain.StoredReport) error {
	if report.ID == "" {
		return ErrMissingID
	}
	if report.CreatedAt.IsZero() {
		return fmt.Errorf("report %s: createdAt is required", report.ID)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
