// Package domain holds the SDLT (Stamp Duty Land Tax) types for
// England and Northern Ireland. Scotland (LBTT) and Wales (LTT) use
// different regimes and are out of scope.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brickvale/homebuyer/pkg/money"
)

var ErrInvalidPrice = errors.New("stampduty: property price must be non-negative")

// BandAmount is one line of the duty breakdown, in band order.
type BandAmount struct {
	Band   string `json:"band"`
	Amount int    `json:"amount"`
}

// Quote is the result of an SDLT computation. The breakdown entries
// always sum to StampDuty.
type Quote struct {
	PropertyPrice      int          `json:"property_price"`
	StampDuty          int          `json:"stamp_duty"`
	EffectiveRate      float64      `json:"effective_rate"`
	FirstTimeBuyer     bool         `json:"first_time_buyer"`
	AdditionalProperty bool         `json:"additional_property"`
	Breakdown          []BandAmount `json:"breakdown"`
}

func (q Quote) Summary() string {
	head := fmt.Sprintf("Stamp Duty on %s: %s (%.1f%%)",
		money.FormatGBP(q.PropertyPrice), money.FormatGBP(q.StampDuty), q.EffectiveRate)
	if q.FirstTimeBuyer {
		head += " (first-time buyer)"
	}
	if q.AdditionalProperty {
		head += " (additional property +5%)"
	}
	lines := []string{head}
	for _, b := range q.Breakdown {
		if b.Amount > 0 {
			lines = append(lines, fmt.Sprintf("  %s: %s", b.Band, money.FormatGBP(b.Amount)))
		}
	}
	return strings.Join(lines, "\n")
}

// PurchaseCostRequest asks for the total upfront cost of a purchase.
// Zero fees mean "use the configured defaults".
type PurchaseCostRequest struct {
	PropertyPrice  int
	DepositPercent float64
	FirstTimeBuyer bool
	SolicitorFee   *int
	SurveyCost     *int
	BrokerFee      *int
}

// CostItem is one line of the upfront-cost breakdown.
type CostItem struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// PurchaseCost is the upfront-cost breakdown. Items are ordered
// {Deposit, Stamp Duty, Solicitor, Survey, Broker Fee, TOTAL} and the
// final TOTAL entry equals the sum of the preceding entries.
type PurchaseCost struct {
	PropertyPrice int        `json:"property_price"`
	Deposit       int        `json:"deposit"`
	StampDuty     int        `json:"stamp_duty"`
	SolicitorFee  int        `json:"solicitor_fees"`
	SurveyCost    int        `json:"survey_cost"`
	BrokerFee     int        `json:"broker_fee"`
	TotalUpfront  int        `json:"total_upfront"`
	Breakdown     []CostItem `json:"breakdown"`
}

func (p PurchaseCost) Summary() string {
	var b strings.Builder
	for _, item := range p.Breakdown {
		fmt.Fprintf(&b, "%-11s %s\n", item.Label, money.FormatGBP(item.Amount))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Service computes stamp duty and total purchase costs.
type Service interface {
	// Compute walks the progressive SDLT bands for the price. The
	// first-time-buyer table only applies at or under the relief cap;
	// the additional-property surcharge is a flat percentage of the
	// full price added as its own breakdown line.
	Compute(price int, firstTimeBuyer, additionalProperty bool) (*Quote, error)

	// PurchaseCost aggregates deposit, stamp duty and fixed fees.
	PurchaseCost(req PurchaseCostRequest) (*PurchaseCost, error)
}
