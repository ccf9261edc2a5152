package service

import (
	"fmt"

	"github.com/brickvale/homebuyer/internal/config"
	"github.com/brickvale/homebuyer/internal/stampduty/domain"
	"github.com/brickvale/homebuyer/pkg/money"
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
		log:    p.Log.Named("stampduty.service"),
		tables: p.Tables,
	}
}

func (s *Service) Compute(price int, firstTimeBuyer, additionalProperty bool) (*domain.Quote, error) {
	if price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	cfg := s.tables.Current()

	bands := cfg.SDLTBands
	if firstTimeBuyer && price <= cfg.FTBPriceCap {
		bands = cfg.SDLTFTBBands
	}

	total := 0
	breakdown := []domain.BandAmount{}
	prevThreshold := 0

	for _, band := range bands {
		if price <= prevThreshold {
			break
		}
		upper := band.UpTo
		if upper == 0 {
			upper = price
		}
		taxable := min(price, upper) - prevThreshold
		if taxable <= 0 {
			break
		}
		tax := int(float64(taxable) * band.Rate)
		breakdown = append(breakdown, domain.BandAmount{
			Band:   bandLabel(prevThreshold, band),
			Amount: tax,
		})
		total += tax
		prevThreshold = upper
	}

	if additionalProperty {
		// The surcharge applies to the whole price, on top of
		// whichever primary table was used.
		surcharge := int(float64(price) * cfg.AdditionalSurcharge)
		breakdown = append(breakdown, domain.BandAmount{
			Band:   fmt.Sprintf("Additional property surcharge @ %.0f%%", cfg.AdditionalSurcharge*100),
			Amount: surcharge,
		})
		total += surcharge
	}

	effectiveRate := 0.0
	if price > 0 {
		effectiveRate = float64(total) / float64(price) * 100
	}

	return &domain.Quote{
		PropertyPrice:      price,
		StampDuty:          total,
		EffectiveRate:      effectiveRate,
		FirstTimeBuyer:     firstTimeBuyer,
		AdditionalProperty: additionalProperty,
		Breakdown:          breakdown,
	}, nil
}

func (s *Service) PurchaseCost(req domain.PurchaseCostRequest) (*domain.PurchaseCost, error) {
	if req.PropertyPrice <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	cfg := s.tables.Current()

	solicitor := valueOr(req.SolicitorFee, cfg.SolicitorFee)
	survey := valueOr(req.SurveyCost, cfg.SurveyCost)
	broker := valueOr(req.BrokerFee, cfg.BrokerFee)

	deposit := int(float64(req.PropertyPrice) * req.DepositPercent / 100)

	// The purchase-cost path never applies the additional-property
	// surcharge; the form it serves has no such input.
	duty, err := s.Compute(req.PropertyPrice, req.FirstTimeBuyer, false)
	if err != nil {
		return nil, err
	}

	total := deposit + duty.StampDuty + solicitor + survey + broker

	return &domain.PurchaseCost{
		PropertyPrice: req.PropertyPrice,
		Deposit:       deposit,
		StampDuty:     duty.StampDuty,
		SolicitorFee:  solicitor,
		SurveyCost:    survey,
		BrokerFee:     broker,
		TotalUpfront:  total,
		Breakdown: []domain.CostItem{
			{Label: "Deposit", Amount: deposit},
			{Label: "Stamp Duty", Amount: duty.StampDuty},
			{Label: "Solicitor", Amount: solicitor},
			{Label: "Survey", Amount: survey},
			{Label: "Broker Fee", Amount: broker},
			{Label: "TOTAL", Amount: total},
		},
	}, nil
}

func bandLabel(lower int, band config.SDLTBand) string {
	if band.UpTo == 0 {
		return fmt.Sprintf("Above %s @ %.0f%%", money.FormatGBP(lower), band.Rate*100)
	}
	return fmt.Sprintf("%s–%s @ %.0f%%", money.FormatGBP(lower), money.FormatGBP(band.UpTo), band.Rate*100)
}

func valueOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}
