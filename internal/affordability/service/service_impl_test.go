package service

import (
	"testing"

	"github.com/brickvale/homebuyer/internal/affordability/domain"
	"github.com/brickvale/homebuyer/internal/config"
	mortgageservice "github.com/brickvale/homebuyer/internal/mortgage/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) domain.Service {
	t.Helper()
	tables := config.NewStaticLendingConfigHolder(config.DefaultLendingConfig())
	mortgage := mortgageservice.NewService(mortgageservice.ServiceParam{
		Log:    zap.NewNop(),
		Tables: tables,
	})
	return NewService(ServiceParam{
		Log:      zap.NewNop(),
		Tables:   tables,
		Mortgage: mortgage,
	})
}

func TestCheck_AtBorrowingCap(t *testing.T) {
	svc := newService(t)

	// £60k income caps borrowing at exactly £270k; the loan sits on
	// the cap and both gates pass at 5.75% over 25 years.
	r, err := svc.Check(domain.CheckRequest{
		AnnualIncome: 60_000,
		LoanAmount:   270_000,
		InterestRate: 5.75,
		TermYears:    25,
	})
	require.NoError(t, err)

	assert.Equal(t, 270_000, r.MaxBorrowing)
	assert.Equal(t, 4.5, r.IncomeMultiple)
	assert.InDelta(t, 5_000.0, r.MonthlyIncome, 1e-9)
	assert.InDelta(t, 1_698.6, r.MonthlyRepayment, 0.5)
	assert.InDelta(t, 33.97, r.RepaymentToIncome, 0.02)

	assert.InDelta(t, 8.75, r.StressTestRate, 1e-9)
	assert.InDelta(t, 2_219.8, r.StressTestMonthly, 0.5)
	assert.InDelta(t, 44.40, r.StressTestRatio, 0.02)

	assert.True(t, r.PassesAfford)
	assert.True(t, r.PassesStressTest)
}

func TestCheck_LoanOverCapFails(t *testing.T) {
	svc := newService(t)

	r, err := svc.Check(domain.CheckRequest{
		AnnualIncome: 60_000,
		LoanAmount:   270_001,
		InterestRate: 5.75,
		TermYears:    25,
	})
	require.NoError(t, err)
	assert.False(t, r.PassesAfford)
}

func TestCheck_RepaymentRatioGate(t *testing.T) {
	svc := newService(t)

	// A short term pushes the repayment ratio over 40% even though
	// the loan is well under the cap.
	r, err := svc.Check(domain.CheckRequest{
		AnnualIncome: 60_000,
		LoanAmount:   200_000,
		InterestRate: 5.75,
		TermYears:    10,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, 200_000, r.MaxBorrowing)
	assert.False(t, r.PassesAfford)
	assert.Greater(t, r.RepaymentToIncome, 40.0)
}

func TestCheck_StressGateIndependent(t *testing.T) {
	svc := newService(t)

	// Just under 40% at the quoted rate but over 45% once stressed.
	r, err := svc.Check(domain.CheckRequest{
		AnnualIncome: 60_000,
		LoanAmount:   260_000,
		InterestRate: 6.9,
		TermYears:    25,
	})
	require.NoError(t, err)
	assert.True(t, r.PassesAfford)
	assert.False(t, r.PassesStressTest)
}

func TestCheck_ZeroLoanPassesEverything(t *testing.T) {
	svc := newService(t)

	r, err := svc.Check(domain.CheckRequest{
		AnnualIncome: 30_000,
		LoanAmount:   0,
		InterestRate: 5.75,
		TermYears:    25,
	})
	require.NoError(t, err)
	assert.Zero(t, r.MonthlyRepayment)
	assert.Zero(t, r.RepaymentToIncome)
	assert.True(t, r.PassesAfford)
	assert.True(t, r.PassesStressTest)
}

func TestCheck_InvalidInput(t *testing.T) {
	svc := newService(t)

	_, err := svc.Check(domain.CheckRequest{AnnualIncome: 0, LoanAmount: 100_000, InterestRate: 5, TermYears: 25})
	assert.ErrorIs(t, err, domain.ErrInvalidIncome)

	_, err = svc.Check(domain.CheckRequest{AnnualIncome: 60_000, LoanAmount: -1, InterestRate: 5, TermYears: 25})
	assert.ErrorIs(t, err, domain.ErrInvalidLoan)

	_, err = svc.Check(domain.CheckRequest{AnnualIncome: 60_000, LoanAmount: 100_000, InterestRate: 5, TermYears: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidTerm)
}

func TestCheck_Deterministic(t *testing.T) {
	svc := newService(t)
	req := domain.CheckRequest{AnnualIncome: 48_000, LoanAmount: 180_000, InterestRate: 4.85, TermYears: 30}

	first, err := svc.Check(req)
	require.NoError(t, err)
	second, err := svc.Check(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
