// Package menu is the interactive terminal front end. It drives the
// same services as the HTTP API, one prompt at a time.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	affordabilitydomain "github.com/brickvale/homebuyer/internal/affordability/domain"
	"github.com/brickvale/homebuyer/internal/config"
	jobsearchdomain "github.com/brickvale/homebuyer/internal/jobsearch/domain"
	landregistrydomain "github.com/brickvale/homebuyer/internal/landregistry/domain"
	mortgagedomain "github.com/brickvale/homebuyer/internal/mortgage/domain"
	propertyfeedsdomain "github.com/brickvale/homebuyer/internal/propertyfeeds/domain"
	ratesdomain "github.com/brickvale/homebuyer/internal/rates/domain"
	stampdutydomain "github.com/brickvale/homebuyer/internal/stampduty/domain"
	"github.com/brickvale/homebuyer/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log              *zap.Logger
	Cfg              config.Config
	MortgageSvc      mortgagedomain.Service
	StampDutySvc     stampdutydomain.Service
	AffordabilitySvc affordabilitydomain.Service
	RatesSvc         ratesdomain.Service
	LandRegistrySvc  landregistrydomain.Service
	PropertySvc      propertyfeedsdomain.Service
	JobSvc           jobsearchdomain.Service
}

type Menu struct {
	in               *bufio.Scanner
	out              io.Writer
	log              *zap.Logger
	cfg              config.Config
	mortgageSvc      mortgagedomain.Service
	stampDutySvc     stampdutydomain.Service
	affordabilitySvc affordabilitydomain.Service
	ratesSvc         ratesdomain.Service
	landRegistrySvc  landregistrydomain.Service
	propertySvc      propertyfeedsdomain.Service
	jobSvc           jobsearchdomain.Service
}

func New(p Params, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		in:               bufio.NewScanner(in),
		out:              out,
		log:              p.Log.Named("menu"),
		cfg:              p.Cfg,
		mortgageSvc:      p.MortgageSvc,
		stampDutySvc:     p.StampDutySvc,
		affordabilitySvc: p.AffordabilitySvc,
		ratesSvc:         p.RatesSvc,
		landRegistrySvc:  p.LandRegistrySvc,
		propertySvc:      p.PropertySvc,
		jobSvc:           p.JobSvc,
	}
}

const menuText = `
Home Buyer Tool
  [1] Search properties (Rightmove RSS)
  [2] Mortgage repayment calculator
  [3] Deposit comparison table
  [4] Stamp duty calculator
  [5] Affordability checker
  [6] Area sold prices (Land Registry)
  [7] Full purchase cost breakdown
  [8] Analyse a specific property (all-in-one)
  [9] Job market search (live feeds)
  [q] Quit
`

// Run loops until the user quits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "Home Buyer Tool")
	fmt.Fprintln(m.out, "Live data: BoE base rate, Land Registry, Rightmove RSS, Adzuna/Reed jobs")

	for {
		fmt.Fprint(m.out, menuText)
		choice, ok := m.prompt("Choose an option")
		if !ok || choice == "q" {
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		}

		switch choice {
		case "1":
			m.searchProperties(ctx)
		case "2":
			m.mortgageCalculator(ctx)
		case "3":
			m.depositComparison(ctx)
		case "4":
			m.stampDuty()
		case "5":
			m.affordability()
		case "6":
			m.areaPrices(ctx)
		case "7":
			m.purchaseCost()
		case "8":
			m.analyseProperty(ctx)
		case "9":
			m.jobMarket(ctx)
		default:
			fmt.Fprintln(m.out, "Unknown option.")
		}
		fmt.Fprintln(m.out)
	}
}

func (m *Menu) searchProperties(ctx context.Context) {
	fmt.Fprintln(m.out, "\nProperty Search via Rightmove RSS")
	fmt.Fprintln(m.out, "Paste a Rightmove search RSS URL, or leave blank to enter a property manually.")

	rssURL, _ := m.prompt("RSS URL")
	if rssURL == "" {
		m.manualProperty()
		return
	}

	maxPrice := m.promptInt("Max price (0 for no limit)", 0)
	minBeds := m.promptInt("Min bedrooms (0 for any)", 0)

	fmt.Fprintln(m.out, "Fetching properties...")
	listings, err := m.propertySvc.FetchRSS(ctx, rssURL, propertyfeedsdomain.SearchCriteria{
		MaxPrice:    maxPrice,
		MinBedrooms: minBeds,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error fetching RSS: %v\n", err)
		return
	}
	if len(listings) == 0 {
		fmt.Fprintln(m.out, "No properties found matching your criteria.")
		return
	}
	for i, l := range listings {
		fmt.Fprintf(m.out, "[%d] %s\n", i+1, l.Summary())
	}
}

func (m *Menu) manualProperty() {
	fmt.Fprintln(m.out, "Manual property entry")
	address, _ := m.prompt("Address")
	price := m.promptInt("Asking price", 300_000)
	beds := m.promptInt("Bedrooms", 3)
	ptype, _ := m.prompt("Property type")

	l := m.propertySvc.ManualListing(address, price, beds, ptype, "", "")
	fmt.Fprintln(m.out, l.Summary())
}

func (m *Menu) mortgageCalculator(ctx context.Context) {
	fmt.Fprintln(m.out, "\nMortgage Repayment Calculator")
	baseRate := m.fetchBaseRate(ctx)

	price := m.promptInt("Property price", 300_000)
	deposit := m.promptFloat("Deposit percent", 10)
	term := m.promptInt("Term (years)", 25)
	fmt.Fprintln(m.out, "Rate types: best_fixed_2yr, average_fixed_2yr, best_fixed_5yr, average_fixed_5yr, standard_variable, tracker")
	rateType, _ := m.prompt("Rate type")

	quote, err := m.mortgageSvc.Quote(mortgagedomain.QuoteRequest{
		PropertyPrice:  price,
		DepositPercent: deposit,
		TermYears:      term,
		RateType:       rateType,
		BaseRate:       &baseRate,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, quote.Summary())
}

func (m *Menu) depositComparison(ctx context.Context) {
	fmt.Fprintln(m.out, "\nDeposit Comparison Table")
	baseRate := m.fetchBaseRate(ctx)

	price := m.promptInt("Property price", 300_000)
	term := m.promptInt("Term (years)", 25)

	quotes, err := m.mortgageSvc.DepositComparison(price, term, "", &baseRate)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "%-9s %-12s %-12s %-8s %-12s %-14s\n",
		"Deposit", "Amount", "Loan", "Rate", "Monthly", "Total interest")
	for _, q := range quotes {
		fmt.Fprintf(m.out, "%-9s %-12s %-12s %-8s %-12s %-14s\n",
			fmt.Sprintf("%.0f%%", q.DepositPercent),
			money.FormatGBP(q.DepositAmount),
			money.FormatGBP(q.LoanAmount),
			fmt.Sprintf("%.2f%%", q.InterestRate),
			money.FormatGBP2(q.MonthlyRepayment),
			money.FormatGBP2(q.TotalInterest),
		)
	}
}

func (m *Menu) stampDuty() {
	fmt.Fprintln(m.out, "\nStamp Duty Calculator")
	price := m.promptInt("Property price", 300_000)
	ftb := m.promptBool("First-time buyer?", false)
	additional := m.promptBool("Additional property?", false)

	quote, err := m.stampDutySvc.Compute(price, ftb, additional)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, quote.Summary())
}

func (m *Menu) affordability() {
	fmt.Fprintln(m.out, "\nAffordability Checker")
	income := m.promptInt("Annual income", 60_000)
	loan := m.promptInt("Loan amount", 270_000)
	rate := m.promptFloat("Interest rate percent", 5.75)
	term := m.promptInt("Term (years)", 25)

	result, err := m.affordabilitySvc.Check(affordabilitydomain.CheckRequest{
		AnnualIncome: income,
		LoanAmount:   loan,
		InterestRate: rate,
		TermYears:    term,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, result.Summary())
}

func (m *Menu) areaPrices(ctx context.Context) {
	fmt.Fprintln(m.out, "\nArea Sold Prices (Land Registry)")
	fmt.Fprintln(m.out, "Enter a postcode prefix (e.g. 'BS1', 'SW1A') or town name")
	postcode, _ := m.prompt("Postcode prefix")
	town := ""
	if postcode == "" {
		town, _ = m.prompt("Town")
	}

	fmt.Fprintln(m.out, "Querying Land Registry...")
	stats, err := m.landRegistrySvc.AreaStats(ctx, landregistrydomain.SearchRequest{
		Postcode: postcode,
		Town:     town,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	if stats.Count == 0 {
		fmt.Fprintln(m.out, "No data found. Try a different postcode or town.")
		return
	}

	fmt.Fprintf(m.out, "Sales analysed: %d (%s)\n", stats.Count, stats.DateRange)
	fmt.Fprintf(m.out, "Price range: %s to %s\n", money.FormatGBP(stats.Min), money.FormatGBP(stats.Max))
	fmt.Fprintf(m.out, "Mean: %s  Median: %s\n", money.FormatGBP(stats.Mean), money.FormatGBP(stats.Median))
	for name, ts := range stats.ByType {
		fmt.Fprintf(m.out, "  %-14s %3d sales, avg %s\n", name, ts.Count, money.FormatGBP(ts.Avg))
	}
}

func (m *Menu) purchaseCost() {
	fmt.Fprintln(m.out, "\nFull Purchase Cost Breakdown")
	price := m.promptInt("Property price", 300_000)
	deposit := m.promptFloat("Deposit percent", 10)
	ftb := m.promptBool("First-time buyer?", false)

	costs, err := m.stampDutySvc.PurchaseCost(stampdutydomain.PurchaseCostRequest{
		PropertyPrice:  price,
		DepositPercent: deposit,
		FirstTimeBuyer: ftb,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, costs.Summary())
}

func (m *Menu) analyseProperty(ctx context.Context) {
	fmt.Fprintln(m.out, "\nFull Property Analysis")
	address, _ := m.prompt("Address")
	price := m.promptInt("Asking price", 300_000)
	deposit := m.promptFloat("Deposit percent", 10)
	term := m.promptInt("Term (years)", 25)
	income := m.promptInt("Annual income", 60_000)
	ftb := m.promptBool("First-time buyer?", false)

	baseRate := m.fetchBaseRate(ctx)
	fmt.Fprintf(m.out, "\nFull Analysis: %s\n", address)
	fmt.Fprintf(m.out, "Price: %s\n\n", money.FormatGBP(price))

	quote, err := m.mortgageSvc.Quote(mortgagedomain.QuoteRequest{
		PropertyPrice:  price,
		DepositPercent: deposit,
		TermYears:      term,
		BaseRate:       &baseRate,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "--- Mortgage ---")
	fmt.Fprintln(m.out, quote.Summary())

	sd, err := m.stampDutySvc.Compute(price, ftb, false)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "--- Stamp Duty ---")
	fmt.Fprintln(m.out, sd.Summary())

	afford, err := m.affordabilitySvc.Check(affordabilitydomain.CheckRequest{
		AnnualIncome: income,
		LoanAmount:   quote.LoanAmount,
		InterestRate: quote.InterestRate,
		TermYears:    term,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "--- Affordability ---")
	fmt.Fprintln(m.out, afford.Summary())

	costs, err := m.stampDutySvc.PurchaseCost(stampdutydomain.PurchaseCostRequest{
		PropertyPrice:  price,
		DepositPercent: deposit,
		FirstTimeBuyer: ftb,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "--- Upfront Costs ---")
	fmt.Fprintln(m.out, costs.Summary())
}

func (m *Menu) jobMarket(ctx context.Context) {
	fmt.Fprintln(m.out, "\nJob Market Search (Live Feeds)")
	if m.cfg.AdzunaAppID != "" && m.cfg.AdzunaAppKey != "" {
		fmt.Fprintln(m.out, "Adzuna API: configured")
	} else {
		fmt.Fprintln(m.out, "Adzuna API: not configured (set ADZUNA_APP_ID & ADZUNA_APP_KEY)")
	}
	if m.cfg.ReedAPIKey != "" {
		fmt.Fprintln(m.out, "Reed API: configured")
	} else {
		fmt.Fprintln(m.out, "Reed API: not configured (set REED_API_KEY)")
	}

	keywords, _ := m.prompt("Keywords")
	location, _ := m.prompt("Location")
	minSalary := m.promptInt("Min salary (0 for any)", 0)

	fmt.Fprintln(m.out, "Searching job portals...")
	jobs, err := m.jobSvc.Search(ctx, jobsearchdomain.JobSearchCriteria{
		Keywords:  keywords,
		Location:  location,
		MinSalary: minSalary,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	if len(jobs) == 0 {
		fmt.Fprintln(m.out, "No jobs found. Try broadening your search.")
		return
	}
	for i, j := range jobs {
		fmt.Fprintf(m.out, "[%d] %s\n", i+1, j.Summary())
	}

	if location != "" {
		stats, err := m.jobSvc.AreaStats(ctx, location)
		if err == nil && stats.Salary != nil {
			fmt.Fprintf(m.out, "\n%s market: %d openings, median salary %s\n",
				location, stats.Count, money.FormatGBP(stats.Salary.Median))
		}
	}
}

func (m *Menu) fetchBaseRate(ctx context.Context) float64 {
	fmt.Fprintln(m.out, "Fetching Bank of England base rate...")
	rate := m.ratesSvc.BaseRate(ctx)
	if rate.Source == ratesdomain.SourceFallback {
		fmt.Fprintf(m.out, "Could not fetch BoE rate, using %.2f%% as fallback\n", rate.Value)
	} else {
		fmt.Fprintf(m.out, "Current BoE base rate: %.2f%%\n", rate.Value)
	}
	return rate.Value
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprintf(m.out, "%s: ", label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) promptInt(label string, def int) int {
	text, ok := m.prompt(fmt.Sprintf("%s [%d]", label, def))
	if !ok || text == "" {
		return def
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		fmt.Fprintln(m.out, "Not a number, using default.")
		return def
	}
	return n
}

func (m *Menu) promptFloat(label string, def float64) float64 {
	text, ok := m.prompt(fmt.Sprintf("%s [%g]", label, def))
	if !ok || text == "" {
		return def
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		fmt.Fprintln(m.out, "Not a number, using default.")
		return def
	}
	return f
}

func (m *Menu) promptBool(label string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	text, ok := m.prompt(fmt.Sprintf("%s [%s]", label, hint))
	if !ok || text == "" {
		return def
	}
	switch strings.ToLower(text) {
	case "y", "yes", "true":
		return true
	default:
		return false
	}
}
