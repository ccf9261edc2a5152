package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brickvale/homebuyer/pkg/money"
)

var (
	ErrInvalidIncome = errors.New("affordability: annual income must be positive")
	ErrInvalidLoan   = errors.New("affordability: loan amount must be non-negative")
	ErrInvalidTerm   = errors.New("affordability: term must be positive")
)

// CheckRequest asks whether a loan is affordable on lender criteria.
// The income multiple and stress buffer come from the lending tables.
type CheckRequest struct {
	AnnualIncome int
	LoanAmount   int
	InterestRate float64
	TermYears    int
}

// Result carries both lender checks. PassesAffordability covers the
// borrowing cap and the repayment ratio; PassesStressTest covers the
// stressed-rate ratio. They are independent, callers combine them.
type Result struct {
	AnnualIncome      int     `json:"annual_income"`
	MaxBorrowing      int     `json:"max_borrowing"`
	IncomeMultiple    float64 `json:"income_multiple"`
	MonthlyIncome     float64 `json:"monthly_income"`
	MonthlyRepayment  float64 `json:"monthly_repayment"`
	RepaymentToIncome float64 `json:"repayment_to_income"`
	StressTestRate    float64 `json:"stress_test_rate"`
	StressTestMonthly float64 `json:"stress_test_monthly"`
	StressTestRatio   float64 `json:"stress_test_ratio"`
	PassesStressTest  bool    `json:"passes_stress_test"`
	PassesAfford      bool    `json:"passes_affordability"`
}

func (r Result) Summary() string {
	status := "FAIL"
	if r.PassesAfford && r.PassesStressTest {
		status = "PASS"
	}
	lines := []string{
		fmt.Sprintf("Affordability: %s", status),
		fmt.Sprintf("Annual income: %s", money.FormatGBP(r.AnnualIncome)),
		fmt.Sprintf("Max borrowing (%gx): %s", r.IncomeMultiple, money.FormatGBP(r.MaxBorrowing)),
		fmt.Sprintf("Monthly repayment: %s (%.1f%% of income)", money.FormatGBP(int(r.MonthlyRepayment+0.5)), r.RepaymentToIncome),
		fmt.Sprintf("Stress test @ %.1f%%: %s (%.1f%% of income)", r.StressTestRate, money.FormatGBP(int(r.StressTestMonthly+0.5)), r.StressTestRatio),
	}
	if !r.PassesAfford {
		lines = append(lines, "  warning: repayment exceeds 40% of monthly income")
	}
	if !r.PassesStressTest {
		lines = append(lines, "  warning: fails stress test (>45% at stressed rate)")
	}
	return strings.Join(lines, "\n")
}

// Service runs the lender affordability and stress-test checks.
type Service interface {
	Check(req CheckRequest) (*Result, error)
}
