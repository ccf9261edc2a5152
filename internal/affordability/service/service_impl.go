package service

import (
	"github.com/brickvale/homebuyer/internal/affordability/domain"
	"github.com/brickvale/homebuyer/internal/config"
	mortgagedomain "github.com/brickvale/homebuyer/internal/mortgage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log      *zap.Logger
	tables   *config.LendingConfigHolder
	mortgage mortgagedomain.Service
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Tables   *config.LendingConfigHolder
	Mortgage mortgagedomain.Service
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:      p.Log.Named("affordability.service"),
		tables:   p.Tables,
		mortgage: p.Mortgage,
	}
}

// Check applies the two standard lender gates. The borrowing cap and
// the 40% repayment ratio feed PassesAfford; the stressed rate, at the
// quoted rate plus the configured buffer, feeds PassesStressTest
// against a 45% ratio.
func (s *Service) Check(req domain.CheckRequest) (*domain.Result, error) {
	if req.AnnualIncome <= 0 {
		return nil, domain.ErrInvalidIncome
	}
	if req.LoanAmount < 0 {
		return nil, domain.ErrInvalidLoan
	}
	if req.TermYears <= 0 {
		return nil, domain.ErrInvalidTerm
	}
	cfg := s.tables.Current()

	maxBorrowing := int(float64(req.AnnualIncome) * cfg.IncomeMultiple)
	monthlyIncome := float64(req.AnnualIncome) / 12

	monthly, err := s.mortgage.MonthlyRepayment(float64(req.LoanAmount), req.InterestRate, req.TermYears)
	if err != nil {
		return nil, err
	}
	ratio := monthly / monthlyIncome * 100

	stressRate := req.InterestRate + cfg.StressBuffer
	stressMonthly, err := s.mortgage.MonthlyRepayment(float64(req.LoanAmount), stressRate, req.TermYears)
	if err != nil {
		return nil, err
	}
	stressRatio := stressMonthly / monthlyIncome * 100

	return &domain.Result{
		AnnualIncome:      req.AnnualIncome,
		MaxBorrowing:      maxBorrowing,
		IncomeMultiple:    cfg.IncomeMultiple,
		MonthlyIncome:     monthlyIncome,
		MonthlyRepayment:  monthly,
		RepaymentToIncome: ratio,
		StressTestRate:    stressRate,
		StressTestMonthly: stressMonthly,
		StressTestRatio:   stressRatio,
		PassesStressTest:  stressRatio < cfg.MaxStressRatio,
		PassesAfford:      req.LoanAmount <= maxBorrowing && ratio < cfg.MaxRepaymentRatio,
	}, nil
}
