package experian

import "fmt"

// accountTypes maps the bureau's two-digit Account_Type codes to display labels.
var accountTypes = map[string]string{
	"00": "Auto Loan",
	"01": "Housing Loan",
	"02": "Property Loan",
	"03": "Loan Against Shares/Securities",
	"04": "Personal Loan",
	"05": "Consumer Loan",
	"06": "Gold Loan",
	"07": "Education Loan",
	"08": "Loan to Professional",
	"09": "Credit Card",
	"10": "Leasing",
	"11": "Overdraft",
	"12": "Two-wheeler Loan",
	"13": "Non-Funded Credit Facility",
	"14": "Loan Against Bank Deposits",
	"15": "Fleet Card",
	"16": "Commercial Vehicle Loan",
	"17": "Telco - Wireless",
	"18": "Telco - Broadband",
	"19": "Telco - Landline",
	"20": "Seller Financing",
	"31": "Secured Credit Card",
	"32": "Used Car Loan",
	"33": "Construction Equipment Loan",
	"34": "Tractor Loan",
	"35": "Corporate Credit Card",
	"36": "Kisan Credit Card",
	"37": "Loan on Credit Card",
	"38": "Prime Minister Jaan Dhan Yojana - Overdraft",
	"39": "Mudra Loans - Shishu / Kishor / Tarun",
	"40": "Microfinance - Business Loan",
	"41": "Microfinance - Personal Loan",
	"42": "Microfinance - Housing Loan",
	"43": "Microfinance - Others",
	"44": "Pradhan Mantri Awas Yojana - Credit Link Subsidy Scheme MAY CLSS",
	"51": "Business Loan - General",
	"52": "Business Loan - Priority Sector - Small Business",
	"53": "Business Loan - Priority Sector - Agriculture",
	"54": "Business Loan - Priority Sector - Others",
	"55": "Business Non-Funded Credit Facility - General",
	"56": "Business Non-Funded Credit Facility - Priority Sector - Small Business",
	"57": "Business Non-Funded Credit Facility - Priority Sector - Agriculture",
	"58": "Business Non-Funded Credit Facility - Priority Sector - Others",
	"59": "Business Loan Against Bank Deposits",
	"61": "Business Loan - Unsecured",
}

// AccountTypeName returns the label for code, or "Account Type <code>" when
// the code is not in the table.
func AccountTypeName(code string) string {
	if name, ok := accountTypes[code]; ok {
		return name
	}
	return fmt.Sprintf("Account Type %s", code)
}

// AccountTypeCodes returns a copy of the known code table.
func AccountTypeCodes() map[string]string {
	out := make(map[string]string, len(accountTypes))
	for code, name := range accountTypes {
		out[code] = name
	}
	return out
}
