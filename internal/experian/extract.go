package experian

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/creditlens/backend/internal/domain"
)

// RootElement is the top-level element of an Experian credit profile response.
const RootElement = "INProfileResponse"

const (
	defaultName          = "Unknown"
	defaultBank          = "Unknown Bank"
	defaultAccountNumber = "N/A"
	defaultAccountStatus = "Active"
)

var (
	// ErrMalformedXML indicates the input could not be parsed as XML.
	ErrMalformedXML = errors.New("failed to parse XML file")
	// ErrMissingRootElement indicates well-formed XML that is not a credit profile response.
	ErrMissingRootElement = errors.New("invalid XML format: missing " + RootElement)
	// ErrExtraction indicates an unexpected failure while reading a parsed document.
	ErrExtraction = errors.New("failed to extract data from XML")
)

// Element paths, relative to the root.
var (
	applicantPath    = []string{"Current_Application", "Current_Application_Details", "Current_Applicant_Details"}
	scorePath        = []string{"SCORE", "BureauScore"}
	creditCountPath  = []string{"CAIS_Account", "CAIS_Summary", "Credit_Account"}
	outstandingPath  = []string{"CAIS_Account", "CAIS_Summary", "Total_Outstanding_Balance"}
	enquiriesPath    = []string{"CAPS", "CAPS_Summary", "CAPSLast7Days"}
	headerPath       = []string{"CreditProfileHeader"}
	caisAccountPath  = []string{"CAIS_Account"}
	holderPath       = []string{"CAIS_Account_History", "CAIS_Holder_Details"}
	holderAddressTag = []string{
		"Address_Line1",
		"Address_Line2",
		"Address_Line3",
		"Address_Line4",
		"Address_Line5",
		"City",
		"State",
		"Postal_PIN_code",
	}
)

// Extractor turns Experian XML into CreditReport values. The zero value uses
// the wall clock for the report date and number fallbacks.
type Extractor struct {
	Now func() time.Time
}

// Extract parses an Experian document with the default Extractor.
func Extract(data []byte) (domain.CreditReport, error) {
	return Extractor{}.Extract(data)
}

// Extract parses data and maps it onto a CreditReport. Missing or malformed
// leaves fall back to defaults; only an unparsable document, a missing root
// element or an unexpected failure while walking the tree is reported.
func (e Extractor) Extract(data []byte) (report domain.CreditReport, err error) {
	doc, err := Parse(data)
	if err != nil {
		return domain.CreditReport{}, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}
	if doc.Name != RootElement {
		return domain.CreditReport{}, fmt.Errorf("%w (found <%s>)", ErrMissingRootElement, doc.Name)
	}

	defer func() {
		if r := recover(); r != nil {
			report = domain.CreditReport{}
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	return e.fromDocument(doc), nil
}

func (e Extractor) fromDocument(doc *Node) domain.CreditReport {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	applicant, _ := doc.Find(applicantPath...)
	counts, _ := doc.Find(creditCountPath...)
	balances, _ := doc.Find(outstandingPath...)
	header, _ := doc.Find(headerPath...)

	report := domain.CreditReport{
		BasicDetails: domain.BasicDetails{
			Name:        joinName(applicant),
			MobilePhone: applicant.LookupOr("", "MobilePhoneNumber"),
			PAN:         applicant.LookupOr("", "IncomeTaxPan"),
			CreditScore: int(parseAmount(doc.LookupOr("", scorePath...))),
		},
		ReportSummary: domain.ReportSummary{
			TotalAccounts:   int(parseAmount(counts.LookupOr("", "CreditAccountTotal"))),
			ActiveAccounts:  int(parseAmount(counts.LookupOr("", "CreditAccountActive"))),
			ClosedAccounts:  int(parseAmount(counts.LookupOr("", "CreditAccountClosed"))),
			CurrentBalance:  parseAmount(balances.LookupOr("", "Outstanding_Balance_All")),
			SecuredAmount:   parseAmount(balances.LookupOr("", "Outstanding_Balance_Secured")),
			UnsecuredAmount: parseAmount(balances.LookupOr("", "Outstanding_Balance_UnSecured")),
			RecentEnquiries: int(parseAmount(doc.LookupOr("", enquiriesPath...))),
		},
		CreditAccounts: []domain.CreditAccount{},
	}

	if cais, ok := doc.Find(caisAccountPath...); ok {
		for _, node := range cais.ChildrenNamed("CAIS_Account_DETAILS") {
			report.CreditAccounts = append(report.CreditAccounts, extractAccount(node))
		}
	}

	ts := now().UTC()
	report.ReportDate = header.LookupOr(ts.Format(time.DateOnly), "ReportDate")
	report.ReportNumber = header.LookupOr(strconv.FormatInt(ts.UnixMilli(), 10), "ReportNumber")
	return report
}

func joinName(applicant *Node) string {
	var parts []string
	for _, tag := range []string{"First_Name", "Middle_Name1", "Last_Name"} {
		if v, ok := applicant.Lookup(tag); ok {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return defaultName
	}
	return strings.Join(parts, " ")
}

func extractAccount(node *Node) domain.CreditAccount {
	account := domain.CreditAccount{
		Bank:           node.LookupOr(defaultBank, "Subscriber_Name"),
		AccountNumber:  node.LookupOr(defaultAccountNumber, "Account_Number"),
		AccountType:    AccountTypeName(node.LookupOr("", "Account_Type")),
		Address:        holderAddress(node),
		OverdueAmount:  parseAmount(node.LookupOr("", "Amount_Overdue")),
		CurrentBalance: parseAmount(node.LookupOr("", "Current_Balance")),
		Status:         node.LookupOr(defaultAccountStatus, "Account_Status"),
	}
	if limit := parseAmount(node.LookupOr("", "Credit_Limit_Amount")); limit > 0 {
		account.CreditLimit = &limit
	}
	return account
}

// holderAddress joins the address of the first holder record only.
func holderAddress(account *Node) string {
	holder, ok := account.Find(holderPath...)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(holderAddressTag))
	for _, tag := range holderAddressTag {
		if v, ok := holder.Lookup(tag); ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// parseAmount reads the leading base-10 integer of s. Anything that does not
// start with digits, negative values and values that overflow become 0.
func parseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
