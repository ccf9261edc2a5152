package service

import (
	"math"

	"github.com/brickvale/homebuyer/internal/config"
	"github.com/brickvale/homebuyer/internal/mortgage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	tables *config.LendingConfigHolder
}

type ServiceParam struct {
	fx.In

	Log    *zap.Logger
	Tables *config.LendingConfigHolder
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:    p.Log.Named("mortgage.service"),
		tables: p.Tables,
	}
}

func (s *Service) MonthlyRepayment(loan, annualRatePct float64, termYears int) (float64, error) {
	if loan < 0 {
		return 0, domain.ErrInvalidLoan
	}
	if termYears <= 0 {
		return 0, domain.ErrInvalidTerm
	}
	n := float64(termYears * 12)
	if annualRatePct == 0 {
		return loan / n, nil
	}
	r := annualRatePct / 100 / 12
	factor := math.Pow(1+r, n)
	return loan * r * factor / (factor - 1), nil
}

func (s *Service) Quote(req domain.QuoteRequest) (*domain.Quote, error) {
	if req.PropertyPrice <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if req.TermYears <= 0 {
		return nil, domain.ErrInvalidTerm
	}
	cfg := s.tables.Current()

	depositPercent := clamp(req.DepositPercent, 5, 100)
	depositAmount := int(float64(req.PropertyPrice) * depositPercent / 100)
	loanAmount := req.PropertyPrice - depositAmount
	ltv := 100 - depositPercent

	baseRate := cfg.BaseRateFallback
	if req.BaseRate != nil {
		baseRate = *req.BaseRate
	}

	rateType := req.RateType
	spread, ok := cfg.LenderSpreads[rateType]
	if !ok {
		// Unknown products quote at the default; deliberate leniency
		// rather than an error.
		rateType = cfg.DefaultRateType
		spread = cfg.LenderSpreads[rateType]
	}

	interestRate := baseRate + spread + ltvPremium(cfg, ltv)

	monthly, err := s.MonthlyRepayment(float64(loanAmount), interestRate, req.TermYears)
	if err != nil {
		return nil, err
	}
	total := monthly * float64(req.TermYears*12)

	return &domain.Quote{
		PropertyPrice:    req.PropertyPrice,
		DepositAmount:    depositAmount,
		DepositPercent:   depositPercent,
		LoanAmount:       loanAmount,
		InterestRate:     interestRate,
		BaseRate:         baseRate,
		LenderSpread:     spread,
		LTVPremium:       interestRate - baseRate - spread,
		TermYears:        req.TermYears,
		MonthlyRepayment: monthly,
		TotalRepayment:   total,
		TotalInterest:    total - float64(loanAmount),
		RateType:         rateType,
	}, nil
}

func (s *Service) DepositComparison(price, termYears int, rateType string, baseRate *float64) ([]domain.Quote, error) {
	ladder := s.tables.Current().DepositLadder
	quotes := make([]domain.Quote, 0, len(ladder))
	for _, dep := range ladder {
		q, err := s.Quote(domain.QuoteRequest{
			PropertyPrice:  price,
			DepositPercent: dep,
			TermYears:      termYears,
			RateType:       rateType,
			BaseRate:       baseRate,
		})
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, nil
}

// ltvPremium walks the tiers ascending; the first tier covering the
// LTV wins, with the ceiling premium past the last tier.
func ltvPremium(cfg config.LendingConfig, ltv float64) float64 {
	for _, tier := range cfg.LTVTiers {
		if ltv <= tier.MaxLTV {
			return tier.Premium
		}
	}
	return cfg.LTVCeiling
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
