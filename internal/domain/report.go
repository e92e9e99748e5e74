package domain

import "time"

// BasicDetails captures the applicant identity block of a credit report.
type BasicDetails struct {
	Name        string `json:"name"`
	MobilePhone string `json:"mobilePhone"`
	PAN         string `json:"pan"`
	CreditScore int    `json:"creditScore"`
}

// ReportSummary aggregates account counts and outstanding balances.
type ReportSummary struct {
	TotalAccounts   int   `json:"totalAccounts"`
	ActiveAccounts  int   `json:"activeAccounts"`
	ClosedAccounts  int   `json:"closedAccounts"`
	CurrentBalance  int64 `json:"currentBalance"`
	SecuredAmount   int64 `json:"securedAmount"`
	UnsecuredAmount int64 `json:"unsecuredAmount"`
	RecentEnquiries int   `json:"recentEnquiries"`
}

// CreditAccount is a single tradeline reported by a lender.
type CreditAccount struct {
	Bank           string `json:"bank"`
	AccountNumber  string `json:"accountNumber"`
	AccountType    string `json:"accountType"`
	Address        string `json:"address"`
	OverdueAmount  int64  `json:"overdueAmount"`
	CurrentBalance int64  `json:"currentBalance"`
	// CreditLimit is nil unless the bureau reported a positive limit.
	CreditLimit *int64 `json:"creditLimit,omitempty"`
	Status      string `json:"status,omitempty"`
}

// CreditReport is the normalized record extracted from a bureau document.
// Summary counts and CreditAccounts are extracted independently and are not
// reconciled against each other.
type CreditReport struct {
	BasicDetails   BasicDetails    `json:"basicDetails"`
	ReportSummary  ReportSummary   `json:"reportSummary"`
	CreditAccounts []CreditAccount `json:"creditAccounts"`
	ReportDate     string          `json:"reportDate"`
	ReportNumber   string          `json:"reportNumber"`
}

// StoredReport is a CreditReport after the store assigned it an identity.
type StoredReport struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	CreditReport
}
