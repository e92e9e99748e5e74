package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vanshika/creditlens/backend/internal/domain"
)

// MemoryRepository keeps reports in process memory. Reports are stored as
// encoded payloads so callers never share slices with the store.
type MemoryRepository struct {
	mu      sync.RWMutex
	reports map[string]memoryEntry
	seq     int
}

type memoryEntry struct {
	id        string
	createdAt time.Time
	payload   []byte
	seq       int
}

// NewMemoryRepository returns an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reports: make(map[string]memoryEntry)}
}

// InsertReport stores a new report.
func (m *MemoryRepository) InsertReport(ctx context.Context, report domain.StoredReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateForInsert(report); err != nil {
		return err
	}
	payload, err := encodePayload(report.CreditReport)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.reports[report.ID]; exists {
		return ErrDuplicateID
	}
	m.seq++
	m.reports[report.ID] = memoryEntry{
		id:        report.ID,
		createdAt: report.CreatedAt.UTC(),
		payload:   payload,
		seq:       m.seq,
	}
	return nil
}

// ListReports returns every report, newest first. Reports sharing a creation
// time are ordered by most recent insert.
func (m *MemoryRepository) ListReports(ctx context.Context) ([]domain.StoredReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	entries := make([]memoryEntry, 0, len(m.reports))
	for _, entry := range m.reports {
		entries = append(entries, entry)
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.After(b.createdAt)
		}
		return a.seq > b.seq
	})

	reports := make([]domain.StoredReport, 0, len(entries))
	for _, entry := range entries {
		report, err := decodePayload(entry.id, entry.createdAt, entry.payload)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// GetReport returns the report with the given identity.
func (m *MemoryRepository) GetReport(ctx context.Context, id string) (domain.StoredReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.StoredReport{}, err
	}

	m.mu.RLock()
	entry, ok := m.reports[id]
	m.mu.RUnlock()
	if !ok {
		return domain.StoredReport{}, ErrReportNotFound
	}
	return decodePayload(entry.id, entry.createdAt, entry.payload)
}

// Ping always succeeds for the in-memory store.
func (m *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (m *MemoryRepository) Close(context.Context) error {
	return nil
}
