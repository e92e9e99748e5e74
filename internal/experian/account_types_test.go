package experian

import "testing"

func TestAccountTypeName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "00", want: "Auto Loan"},
		{code: "09", want: "Credit Card"},
		{code: "61", want: "Business Loan - Unsecured"},
		{code: "99", want: "Account Type 99"},
		{code: "9", want: "Account Type 9"},
		{code: "", want: "Account Type "},
	}
	for _, tc := range tests {
		if got := AccountTypeName(tc.code); got != tc.want {
			t.Errorf("AccountTypeName(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestAccountTypeCodesReturnsCopy(t *testing.T) {
	codes := AccountTypeCodes()
	codes["09"] = "changed"
	if AccountTypeName("09") != "Credit Card" {
		t.Fatal("mutating the returned table must not affect lookups")
	}
	if len(codes) != len(accountTypes) {
		t.Fatalf("expected %d codes, got %d", len(accountTypes), len(codes))
	}
}
