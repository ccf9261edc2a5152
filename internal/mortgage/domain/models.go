package domain

import (
	"errors"
	"fmt"

	"github.com/brickvale/homebuyer/pkg/money"
)

var (
	ErrInvalidPrice = errors.New("mortgage: property price must be positive")
	ErrInvalidTerm  = errors.New("mortgage: term must be a positive number of years")
	ErrInvalidLoan  = errors.New("mortgage: loan amount must be non-negative")
)

// QuoteRequest asks for a full mortgage quote. BaseRate overrides the
// live/fallback base rate when set.
type QuoteRequest struct {
	PropertyPrice  int
	DepositPercent float64
	TermYears      int
	RateType       string
	BaseRate       *float64
}

// Quote is the result of one mortgage computation. The interest rate
// decomposes as base rate + lender spread + LTV premium. Monetary
// totals are left unrounded; display layers round.
type Quote struct {
	PropertyPrice    int     `json:"property_price"`
	DepositAmount    int     `json:"deposit_amount"`
	DepositPercent   float64 `json:"deposit_percent"`
	LoanAmount       int     `json:"loan_amount"`
	InterestRate     float64 `json:"interest_rate"`
	BaseRate         float64 `json:"base_rate"`
	LenderSpread     float64 `json:"lender_spread"`
	LTVPremium       float64 `json:"ltv_premium"`
	TermYears        int     `json:"term_years"`
	MonthlyRepayment float64 `json:"monthly_repayment"`
	TotalRepayment   float64 `json:"total_repayment"`
	TotalInterest    float64 `json:"total_interest"`
	RateType         string  `json:"rate_type"`
}

func (q Quote) Summary() string {
	return fmt.Sprintf(
		"Property: %s\n"+
			"Deposit: %s (%.1f%%)\n"+
			"Loan: %s (LTV %.1f%%)\n"+
			"Rate: %.2f%% (%s) [base %.2f%% + spread %.2f%% + LTV premium %.2f%%]\n"+
			"Term: %d years\n"+
			"Monthly: %s\n"+
			"Total repaid: %s\n"+
			"Total interest: %s",
		money.FormatGBP(q.PropertyPrice),
		money.FormatGBP(q.DepositAmount), q.DepositPercent,
		money.FormatGBP(q.LoanAmount), 100-q.DepositPercent,
		q.InterestRate, q.RateType, q.BaseRate, q.LenderSpread, q.LTVPremium,
		q.TermYears,
		money.FormatGBP2(q.MonthlyRepayment),
		money.FormatGBP2(q.TotalRepayment),
		money.FormatGBP2(q.TotalInterest),
	)
}

// Service computes mortgage repayments. Implementations are pure and
// safe for concurrent use.
type Service interface {
	// MonthlyRepayment applies the standard annuity formula. A zero
	// annual rate degrades to straight-line repayment.
	MonthlyRepayment(loan, annualRatePct float64, termYears int) (float64, error)

	// Quote computes a full mortgage quote. The deposit percentage is
	// clamped into [5,100] before use; an unknown rate type falls back
	// to the configured default product.
	Quote(req QuoteRequest) (*Quote, error)

	// DepositComparison runs Quote at each rung of the configured
	// deposit ladder, in ladder order.
	DepositComparison(price, termYears int, rateType string, baseRate *float64) ([]Quote, error)
}
