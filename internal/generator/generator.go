package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/vanshika/creditlens/backend/internal/experian"
)

// Document is one generated report and the file name it is written under.
type Document struct {
	FileName string
	Profile  Profile
}

// Dataset contains the generated documents.
type Dataset struct {
	Reports []Document
}

// Generator produces synthetic Experian profile documents. Output is fully
// determined by the seed.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
	accountCodes  []string
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.NumReports <= 0 {
		cfg.NumReports = defaults.NumReports
	}
	if cfg.MaxAccounts <= 0 {
		cfg.MaxAccounts = defaults.MaxAccounts
	}
	if cfg.MissingFieldChance < 0 {
		cfg.MissingFieldChance = 0
	}
	if cfg.UnknownTypeChance < 0 {
		cfg.UnknownTypeChance = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
		accountCodes:  sortedCodes(experian.AccountTypeCodes()),
	}
}

// Generate synthesises cfg.NumReports documents. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	reports := make([]Document, 0, g.cfg.NumReports)

	for i := 0; i < g.cfg.NumReports; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		reportTime := base.Add(time.Duration(g.rand.Intn(300*24*60)) * time.Minute)
		reports = append(reports, Document{
			FileName: fmt.Sprintf("report-%05d.xml", i+1),
			Profile:  g.profile(reportTime),
		})
	}
	return Dataset{Reports: reports}, nil
}

func (g *Generator) profile(reportTime time.Time) Profile {
	numAccounts := g.rand.Intn(g.cfg.MaxAccounts + 1)
	accounts := make([]AccountDetail, 0, numAccounts)
	active, closed := 0, 0
	var secured, unsecured int64
	for i := 0; i < numAccounts; i++ {
		acc, balance, isSecured, isClosed := g.account()
		accounts = append(accounts, acc)
		if isClosed {
			closed++
		} else {
			active++
		}
		if isSecured {
			secured += balance
		} else {
			unsecured += balance
		}
	}

	p := Profile{
		Applicant: Applicant{
			FirstName:   g.maybe(g.pick(g.nameFragments.first)),
			MiddleName:  g.optionalMiddleName(),
			LastName:    g.maybe(g.pick(g.nameFragments.last)),
			PAN:         g.maybe(g.randomPAN()),
			MobilePhone: g.maybe(g.randomMobile()),
		},
		Summary: AccountSummary{
			Total:     g.maybe(strconv.Itoa(numAccounts)),
			Active:    g.maybe(strconv.Itoa(active)),
			Closed:    g.maybe(strconv.Itoa(closed)),
			Secured:   g.maybe(strconv.FormatInt(secured, 10)),
			Unsecured: g.maybe(strconv.FormatInt(unsecured, 10)),
			All:       g.maybe(strconv.FormatInt(secured+unsecured, 10)),
		},
		Accounts:  accounts,
		Enquiries: g.maybe(strconv.Itoa(g.rand.Intn(6))),
		Score:     g.maybe(strconv.Itoa(300 + g.rand.Intn(551))),
	}

	if !g.chance(g.cfg.MissingFieldChance) {
		p.Header = &ProfileHeader{
			ReportDate:   g.maybe(reportTime.Format("20060102")),
			ReportTime:   str(reportTime.Format("150405")),
			ReportNumber: g.maybe(strconv.FormatInt(reportTime.UnixMilli()+int64(g.rand.Intn(1000)), 10)),
		}
	}
	return p
}

// account returns a tradeline plus the values the summary is built from.
func (g *Generator) account() (acc AccountDetail, balance int64, secured, closed bool) {
	code := g.pick(g.accountCodes)
	if g.chance(g.cfg.UnknownTypeChance) {
		code = strconv.Itoa(90 + g.rand.Intn(9))
	}
	secured = isSecuredCode(code)
	closed = g.chance(0.2)

	if !closed {
		balance = int64(g.rand.Intn(2_000_000))
	}
	status := "11"
	if closed {
		status = "13"
	}

	acc = AccountDetail{
		SubscriberName: g.maybe(g.pick(g.nameFragments.banks)),
		AccountNumber:  g.maybe(g.randomAccountNumber()),
		AccountType:    g.maybe(code),
		AccountStatus:  g.maybe(status),
		CurrentBalance: g.maybe(strconv.FormatInt(balance, 10)),
		AmountOverdue:  g.maybe(g.overdue(balance)),
	}
	if code == "09" || g.chance(0.3) {
		acc.CreditLimit = g.maybe(strconv.Itoa(10_000 * (1 + g.rand.Intn(50))))
	}

	holders := 1 + g.rand.Intn(2)
	if g.chance(g.cfg.MissingFieldChance) {
		holders = 0
	}
	for i := 0; i < holders; i++ {
		acc.Holders = append(acc.Holders, g.holder())
	}
	return acc, balance, secured, closed
}

func (g *Generator) holder() Holder {
	h := Holder{
		Line1:      g.maybe(fmt.Sprintf("Flat %d, %s", 1+g.rand.Intn(900), g.pick(g.nameFragments.buildings))),
		Line2:      g.maybe(fmt.Sprintf("%d %s", 1+g.rand.Intn(200), g.pick(g.nameFragments.streets))),
		City:       g.maybe(g.pick(g.nameFragments.cities)),
		State:      g.maybe(g.pick(g.nameFragments.states)),
		PostalCode: g.maybe(fmt.Sprintf("%06d", 110000+g.rand.Intn(740000))),
	}
	switch {
	case g.chance(0.5):
		h.Line3 = g.maybe("Near " + g.pick(g.nameFragments.landmarks))
	case g.chance(0.3):
		h.Line3 = str("")
	}
	if g.chance(0.5) {
		h.Line4 = g.maybe(g.pick(g.nameFragments.localities))
	}
	if g.chance(0.4) {
		h.Line5 = g.maybe("Opp. " + g.pick(g.nameFragments.landmarks))
	}
	return h
}

func (g *Generator) overdue(balance int64) string {
	if balance == 0 || !g.chance(0.15) {
		return "0"
	}
	amount := g.rand.Int63n(balance/4 + 1)
	if g.chance(0.2) {
		// Bureau files occasionally carry paise.
		return fmt.Sprintf("%d.%02d", amount, g.rand.Intn(100))
	}
	return strconv.FormatInt(amount, 10)
}

// maybe returns v, or with MissingFieldChance either nil (element omitted)
// or a blank value.
func (g *Generator) maybe(v string) *string {
	if !g.chance(g.cfg.MissingFieldChance) {
		return str(v)
	}
	if g.rand.Intn(2) == 0 {
		return nil
	}
	return str("")
}

func (g *Generator) optionalMiddleName() *string {
	if g.chance(0.6) {
		return nil
	}
	return str(g.pick(g.nameFragments.first))
}

func (g *Generator) chance(p float64) bool {
	return p > 0 && g.rand.Float64() < p
}

func (g *Generator) pick(options []string) string {
	return options[g.rand.Intn(len(options))]
}

func (g *Generator) randomPAN() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, 10)
	for i := 0; i < 5; i++ {
		b[i] = letters[g.rand.Intn(len(letters))]
	}
	b[3] = 'P'
	for i := 5; i < 9; i++ {
		b[i] = byte('0' + g.rand.Intn(10))
	}
	b[9] = letters[g.rand.Intn(len(letters))]
	return string(b)
}

func (g *Generator) randomMobile() string {
	return fmt.Sprintf("%d%09d", 6+g.rand.Intn(4), g.rand.Intn(1_000_000_000))
}

func (g *Generator) randomAccountNumber() string {
	if g.chance(0.5) {
		return fmt.Sprintf("XXXXXXXX%04d", g.rand.Intn(10000))
	}
	return fmt.Sprintf("%s%08d", g.pick([]string{"SBI", "HDF", "ICI", "AXS", "KOT"}), g.rand.Intn(100_000_000))
}

// isSecuredCode reports whether an account type is backed by collateral.
func isSecuredCode(code string) bool {
	switch code {
	case "00", "01", "02", "03", "06", "12", "14", "16", "31", "32", "33", "34", "42", "44", "59":
		return true
	}
	return false
}

func sortedCodes(table map[string]string) []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

type nameFragments struct {
	first      []string
	last       []string
	banks      []string
	buildings  []string
	streets    []string
	landmarks  []string
	localities []string
	cities     []string
	states     []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:      []string{"Priya", "Rahul", "Ananya", "Vikram", "Sneha", "Arjun", "Kavya", "Rohan", "Meera", "Aditya", "Ishita", "Karan"},
		last:       []string{"Sharma", "Patel", "Iyer", "Reddy", "Nair", "Gupta", "Mehta", "Singh", "Das", "Kulkarni"},
		banks:      []string{"State Bank of India", "HDFC Bank", "ICICI Bank", "Axis Bank", "Kotak Mahindra Bank", "Bajaj Finance", "Punjab National Bank", "Yes Bank"},
		buildings:  []string{"Lake View Apartments", "Green Park Residency", "Shanti Niketan", "Sunrise Towers", "Palm Grove"},
		streets:    []string{"MG Road", "Station Road", "Link Road", "Park Street", "Residency Road", "Nehru Nagar"},
		landmarks:  []string{"City Hospital", "Ganesh Temple", "Central Mall", "Bus Depot", "Public Library"},
		localities: []string{"Andheri East", "Koramangala", "Kothrud", "T Nagar", "Banjara Hills", "Salt Lake"},
		cities:     []string{"Mumbai", "Bengaluru", "Pune", "Chennai", "Hyderabad", "Kolkata", "Jaipur", "Ahmedabad"},
		states:     []string{"MH", "KA", "TN", "TS", "WB", "RJ", "GJ", "DL"},
	}
}
