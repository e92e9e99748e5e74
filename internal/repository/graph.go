package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/vanshika/creditlens/backend/internal/domain"
	"github.com/vanshika/creditlens/backend/internal/graph"
)

// GraphRepository persists reports in Neo4j. Each report is a CreditReport
// node carrying the full JSON payload; its accounts are also projected as
// CreditAccount nodes linked to the Lender that reported them.
type GraphRepository struct {
	client graph.Client
}

// NewGraphRepository instantiates a GraphRepository backed by the supplied graph client.
func NewGraphRepository(client graph.Client) *GraphRepository {
	return &GraphRepository{client: client}
}

// EnsureSchema creates the uniqueness constraint on report identities.
func (r *GraphRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, reportConstraintCypher, nil); err != nil {
		return fmt.Errorf("create report constraint: %w", err)
	}
	return nil
}

// InsertReport creates the report node and its account projection.
func (r *GraphRepository) InsertReport(ctx context.Context, report domain.StoredReport) error {
	if err := validateForInsert(report); err != nil {
		return err
	}
	payload, err := encodePayload(report.CreditReport)
	if err != nil {
		return err
	}

	params := map[string]any{
		"reportId": report.ID,
		"props":    reportProperties(report, payload),
		"accounts": accountParams(report.CreditAccounts),
	}
	if _, err := r.client.ExecuteWrite(ctx, insertReportCypher, params); err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert report %s: %w", report.ID, err)
	}
	return nil
}

// ListReports returns every report ordered by creation time, newest first.
func (r *GraphRepository) ListReports(ctx context.Context) ([]domain.StoredReport, error) {
	res, err := r.client.ExecuteRead(ctx, listReportsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list reports query: %w", err)
	}

	reports := make([]domain.StoredReport, 0, len(res.Records))
	for _, record := range res.Records {
		report, err := reportFromRecord(record)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// GetReport fetches a single report by identity.
func (r *GraphRepository) GetReport(ctx context.Context, id string) (domain.StoredReport, error) {
	res, err := r.client.ExecuteRead(ctx, getReportCypher, map[string]any{"reportId": id})
	if err != nil {
		return domain.StoredReport{}, fmt.Errorf("get report %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return domain.StoredReport{}, ErrReportNotFound
	}
	return reportFromRecord(res.Records[0])
}

// Ping verifies graph connectivity.
func (r *GraphRepository) Ping(ctx context.Context) error {
	return r.client.VerifyConnectivity(ctx)
}

// Close releases the underlying driver.
func (r *GraphRepository) Close(ctx context.Context) error {
	return r.client.Close(ctx)
}

func reportProperties(report domain.StoredReport, payload []byte) map[string]any {
	return map[string]any{
		"createdAt":    formatTime(report.CreatedAt),
		"reportDate":   report.ReportDate,
		"reportNumber": report.ReportNumber,
		"name":         report.BasicDetails.Name,
		"pan":          report.BasicDetails.PAN,
		"creditScore":  int64(report.BasicDetails.CreditScore),
		"payload":      string(payload),
	}
}

func accountParams(accounts []domain.CreditAccount) []map[string]any {
	out := make([]map[string]any, 0, len(accounts))
	for i, acc := range accounts {
		props := map[string]any{
			"accountNumber":  acc.AccountNumber,
			"accountType":    acc.AccountType,
			"address":        acc.Address,
			"overdueAmount":  acc.OverdueAmount,
			"currentBalance": acc.CurrentBalance,
			"status":         acc.Status,
		}
		if acc.CreditLimit != nil {
			props["creditLimit"] = *acc.CreditLimit
		}
		out = append(out, map[string]any{
			"position": int64(i),
			"bank":     acc.Bank,
			"props":    props,
		})
	}
	return out
}

func reportFromRecord(record graph.Record) (domain.StoredReport, error) {
	id := record.String("reportId")
	createdAt, ok := record.Time("createdAt")
	if !ok {
		return domain.StoredReport{}, fmt.Errorf("report %s: invalid createdAt %v", id, record["createdAt"])
	}
	return decodePayload(id, createdAt, []byte(record.String("payload")))
}

func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	return errors.As(err, &neoErr) && strings.HasSuffix(neoErr.Code, "ConstraintValidationFailed")
}

const reportConstraintCypher = `
CREATE CONSTRAINT credit_report_id IF NOT EXISTS
FOR (r:CreditReport) REQUIRE r.reportId IS UNIQUE
`

const insertReportCypher = `
CREATE (r:CreditReport {reportId: $reportId})
SET r += $props
FOREACH (acc IN $accounts |
	MERGE (l:Lender {name: acc.bank})
	CREATE (r)-[:HAS_ACCOUNT {position: acc.position}]->(a:CreditAccount)
	SET a += acc.props
	MERGE (a)-[:REPORTED_BY]->(l)
)
RETURN r.reportId AS reportId
`

const listReportsCypher = `
MATCH (r:CreditReport)
RETURN r.reportId AS reportId,
       r.createdAt AS createdAt,
       r.payload AS payload
ORDER BY datetime(r.createdAt) DESC
`

const getReportCypher = `
MATCH (r:CreditReport {reportId: $reportId})
RETURN r.reportId AS reportId,
       r.createdAt AS createdAt,
       r.payload AS payload
LIMIT 1
`
