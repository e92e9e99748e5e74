package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vanshika/creditlens/backend/internal/domain"
)

func sampleReport(id string, createdAt time.Time) domain.StoredReport {
	limit := int64(50000)
	return domain.StoredReport{
		ID:        id,
		CreatedAt: createdAt,
		CreditReport: domain.CreditReport{
			BasicDetails: domain.BasicDetails{
				Name:        "Sagar Ugale",
				MobilePhone: "9819137672",
				PAN:         "AOZPB0247S",
				CreditScore: 719,
			},
			ReportSummary: domain.ReportSummary{
				TotalAccounts:   2,
				ActiveAccounts:  1,
				ClosedAccounts:  1,
				CurrentBalance:  245000,
				SecuredAmount:   200000,
				UnsecuredAmount: 45000,
				RecentEnquiries: 0,
			},
			CreditAccounts: []domain.CreditAccount{
				{
					Bank:           "HDFC Bank",
					AccountNumber:  "XXXX1234",
					AccountType:    "Credit Card",
					Address:        "12 Main Road, Pune",
					OverdueAmount:  0,
					CurrentBalance: 45000,
					CreditLimit:    &limit,
					Status:         "Active",
				},
			},
			ReportDate:   "20241021",
			ReportNumber: "1729484112345",
		},
	}
}

func TestMemoryRepository_InsertAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	created := time.Date(2024, 10, 21, 9, 45, 0, 0, time.FixedZone("IST", 19800))

	if err := repo.InsertReport(ctx, sampleReport("r-1", created)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.GetReport(ctx, "r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "r-1" || !got.CreatedAt.Equal(created) || got.CreatedAt.Location() != time.UTC {
		t.Fatalf("unexpected identity %s %v", got.ID, got.CreatedAt)
	}
	if got.BasicDetails.PAN != "AOZPB0247S" || got.ReportSummary.CurrentBalance != 245000 {
		t.Fatalf("unexpected report %+v", got.CreditReport)
	}
	if len(got.CreditAccounts) != 1 || got.CreditAccounts[0].CreditLimit == nil || *got.CreditAccounts[0].CreditLimit != 50000 {
		t.Fatalf("unexpected accounts %+v", got.CreditAccounts)
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	report := sampleReport("r-1", time.Now())
	if err := repo.InsertReport(ctx, report); err != nil {
		t.Fatalf("insert: %v", err)
	}
	report.CreditAccounts[0].Bank = "mutated"

	first, _ := repo.GetReport(ctx, "r-1")
	first.CreditAccounts[0].Bank = "mutated again"

	second, _ := repo.GetReport(ctx, "r-1")
	if second.CreditAccounts[0].Bank != "HDFC Bank" {
		t.Fatalf("store shared state with caller: %q", second.CreditAccounts[0].Bank)
	}
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, r := range []domain.StoredReport{
		sampleReport("old", base),
		sampleReport("new", base.Add(2*time.Hour)),
		sampleReport("mid", base.Add(time.Hour)),
		sampleReport("mid-later-insert", base.Add(time.Hour)),
	} {
		if err := repo.InsertReport(ctx, r); err != nil {
			t.Fatalf("insert %s: %v", r.ID, err)
		}
	}

	reports, err := repo.ListReports(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"new", "mid-later-insert", "mid", "old"}
	if len(reports) != len(want) {
		t.Fatalf("expected %d reports, got %d", len(want), len(reports))
	}
	for i, id := range want {
		if reports[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, reports[i].ID)
		}
	}
}

func TestMemoryRepository_ListEmpty(t *testing.T) {
	reports, err := NewMemoryRepository().ListReports(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if reports == nil || len(reports) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", reports)
	}
}

func TestMemoryRepository_Errors(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.GetReport(ctx, "missing"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
	if err := repo.InsertReport(ctx, sampleReport("", time.Now())); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if err := repo.InsertReport(ctx, sampleReport("r-1", time.Time{})); err == nil {
		t.Fatal("expected error for zero createdAt")
	}
	if err := repo.InsertReport(ctx, sampleReport("r-1", time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.InsertReport(ctx, sampleReport("r-1", time.Now())); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.InsertReport(ctx, sampleReport("r-1", time.Now())); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := repo.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from ping, got %v", err)
	}
}
