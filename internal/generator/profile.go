package generator

import (
	"encoding/xml"
	"fmt"
)

// Profile is the subset of an INProfileResponse document the generator writes.
// Nil leaves are omitted; pointers to "" are written as empty elements.
type Profile struct {
	XMLName   xml.Name        `xml:"INProfileResponse"`
	Header    *ProfileHeader  `xml:"CreditProfileHeader,omitempty"`
	Applicant Applicant       `xml:"Current_Application>Current_Application_Details>Current_Applicant_Details"`
	Summary   AccountSummary  `xml:"CAIS_Account>CAIS_Summary"`
	Accounts  []AccountDetail `xml:"CAIS_Account>CAIS_Account_DETAILS"`
	Enquiries *string         `xml:"CAPS>CAPS_Summary>CAPSLast7Days,omitempty"`
	Score     *string         `xml:"SCORE>BureauScore,omitempty"`
}

// ProfileHeader carries the report date, time and number.
type ProfileHeader struct {
	ReportDate   *string `xml:"ReportDate,omitempty"`
	ReportTime   *string `xml:"ReportTime,omitempty"`
	ReportNumber *string `xml:"ReportNumber,omitempty"`
}

// Applicant is the Current_Applicant_Details block.
type Applicant struct {
	LastName    *string `xml:"Last_Name,omitempty"`
	FirstName   *string `xml:"First_Name,omitempty"`
	MiddleName  *string `xml:"Middle_Name1,omitempty"`
	PAN         *string `xml:"IncomeTaxPan,omitempty"`
	MobilePhone *string `xml:"MobilePhoneNumber,omitempty"`
}

// AccountSummary holds the CAIS account counts and outstanding balances.
type AccountSummary struct {
	Total     *string `xml:"Credit_Account>CreditAccountTotal,omitempty"`
	Active    *string `xml:"Credit_Account>CreditAccountActive,omitempty"`
	Closed    *string `xml:"Credit_Account>CreditAccountClosed,omitempty"`
	Secured   *string `xml:"Total_Outstanding_Balance>Outstanding_Balance_Secured,omitempty"`
	Unsecured *string `xml:"Total_Outstanding_Balance>Outstanding_Balance_UnSecured,omitempty"`
	All       *string `xml:"Total_Outstanding_Balance>Outstanding_Balance_All,omitempty"`
}

// AccountDetail is one CAIS_Account_DETAILS tradeline.
type AccountDetail struct {
	SubscriberName *string  `xml:"Subscriber_Name,omitempty"`
	AccountNumber  *string  `xml:"Account_Number,omitempty"`
	AccountType    *string  `xml:"Account_Type,omitempty"`
	CreditLimit    *string  `xml:"Credit_Limit_Amount,omitempty"`
	AccountStatus  *string  `xml:"Account_Status,omitempty"`
	CurrentBalance *string  `xml:"Current_Balance,omitempty"`
	AmountOverdue  *string  `xml:"Amount_Overdue,omitempty"`
	Holders        []Holder `xml:"CAIS_Account_History>CAIS_Holder_Details,omitempty"`
}

// Holder is one CAIS_Holder_Details entry. Only the first holder of an
// account is read back by the extractor.
type Holder struct {
	Line1      *string `xml:"Address_Line1,omitempty"`
	Line2      *string `xml:"Address_Line2,omitempty"`
	Line3      *string `xml:"Address_Line3,omitempty"`
	Line4      *string `xml:"Address_Line4,omitempty"`
	Line5      *string `xml:"Address_Line5,omitempty"`
	City       *string `xml:"City,omitempty"`
	State      *string `xml:"State,omitempty"`
	PostalCode *string `xml:"Postal_PIN_code,omitempty"`
}

// Marshal renders the profile as an indented XML document with a declaration.
func (p Profile) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}

func str(s string) *string {
	return &s
}
