package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanshika/creditlens/backend/internal/experian"
)

func TestGenerator_DocumentsExtract(t *testing.T) {
	gen := New(Config{NumReports: 40, MaxAccounts: 5, MissingFieldChance: 0.2, UnknownTypeChance: 0.2, Seed: 7})
	dataset, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(dataset.Reports) != 40 {
		t.Fatalf("expected 40 reports, got %d", len(dataset.Reports))
	}

	for _, doc := range dataset.Reports {
		data, err := doc.Profile.Marshal()
		if err != nil {
			t.Fatalf("%s: marshal: %v", doc.FileName, err)
		}
		report, err := experian.Extract(data)
		if err != nil {
			t.Fatalf("%s: extract: %v\n%s", doc.FileName, err, data)
		}
		if len(report.CreditAccounts) != len(doc.Profile.Accounts) {
			t.Fatalf("%s: expected %d accounts, got %d", doc.FileName, len(doc.Profile.Accounts), len(report.CreditAccounts))
		}
		for _, acc := range report.CreditAccounts {
			if acc.Bank == "" || acc.AccountNumber == "" || acc.Status == "" {
				t.Fatalf("%s: defaults not applied: %+v", doc.FileName, acc)
			}
			if acc.CreditLimit != nil && *acc.CreditLimit <= 0 {
				t.Fatalf("%s: non-positive credit limit %d", doc.FileName, *acc.CreditLimit)
			}
		}
	}
}

func TestGenerator_CompleteDocuments(t *testing.T) {
	gen := New(Config{NumReports: 10, MaxAccounts: 4, Seed: 11})
	dataset, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, doc := range dataset.Reports {
		data, _ := doc.Profile.Marshal()
		report, err := experian.Extract(data)
		if err != nil {
			t.Fatalf("%s: extract: %v", doc.FileName, err)
		}
		if report.BasicDetails.Name == "Unknown" || report.BasicDetails.PAN == "" {
			t.Fatalf("%s: incomplete basic details %+v", doc.FileName, report.BasicDetails)
		}
		if report.ReportSummary.TotalAccounts != len(report.CreditAccounts) {
			t.Fatalf("%s: summary total %d, accounts %d", doc.FileName, report.ReportSummary.TotalAccounts, len(report.CreditAccounts))
		}
		if *doc.Profile.Header.ReportNumber != report.ReportNumber {
			t.Fatalf("%s: report number %q not extracted", doc.FileName, report.ReportNumber)
		}
		for _, acc := range report.CreditAccounts {
			if strings.HasPrefix(acc.AccountType, "Account Type") {
				t.Fatalf("%s: unexpected unknown account type %q", doc.FileName, acc.AccountType)
			}
			if acc.Address == "" {
				t.Fatalf("%s: expected holder address", doc.FileName)
			}
		}
	}
}

func TestGenerator_FullAddressesJoinAllParts(t *testing.T) {
	dataset, err := New(Config{NumReports: 60, MaxAccounts: 5, Seed: 3}).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	found := false
	for _, doc := range dataset.Reports {
		data, _ := doc.Profile.Marshal()
		report, err := experian.Extract(data)
		if err != nil {
			t.Fatalf("%s: extract: %v", doc.FileName, err)
		}
		for i, acc := range doc.Profile.Accounts {
			if len(acc.Holders) == 0 {
				continue
			}
			h := acc.Holders[0]
			parts := []*string{h.Line1, h.Line2, h.Line3, h.Line4, h.Line5, h.City, h.State, h.PostalCode}
			complete := true
			for _, p := range parts {
				if p == nil || *p == "" {
					complete = false
					break
				}
			}
			if !complete {
				continue
			}
			found = true
			want := strings.Join([]string{*h.Line1, *h.Line2, *h.Line3, *h.Line4, *h.Line5, *h.City, *h.State, *h.PostalCode}, ", ")
			if got := report.CreditAccounts[i].Address; got != want {
				t.Fatalf("%s: expected address %q, got %q", doc.FileName, want, got)
			}
		}
	}
	if !found {
		t.Fatal("expected at least one holder with all eight address parts")
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	render := func() []byte {
		dataset, err := New(Config{NumReports: 5, Seed: 99}).Generate(context.Background())
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		var buf bytes.Buffer
		for _, doc := range dataset.Reports {
			data, _ := doc.Profile.Marshal()
			buf.Write(data)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(render(), render()) {
		t.Fatal("same seed produced different documents")
	}
}

func TestGenerator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Config{NumReports: 3, Seed: 1}).Generate(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestWriteDataset(t *testing.T) {
	dataset, err := New(Config{NumReports: 3, Seed: 5}).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "out")
	if err := WriteDataset(dataset, dir); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "report-00002.xml"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		t.Fatalf("missing xml declaration: %.40s", data)
	}
	if _, err := experian.Extract(data); err != nil {
		t.Fatalf("written report does not extract: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var manifest []ManifestEntry
	if err := json.Unmarshal(raw, &manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(manifest) != 3 || manifest[0].File != "report-00001.xml" {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
}
