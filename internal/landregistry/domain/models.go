// Package domain holds Land Registry Price Paid Data types. Sold
// prices are fetched from the public PPD linked-data API and cached
// per area so watched areas stay queryable when the feed is down.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brickvale/homebuyer/pkg/money"
	"github.com/bwmarrin/snowflake"
)

var ErrNoSearchTerms = errors.New("landregistry: postcode or town required")

// Property type codes as used by the Price Paid Data set.
const (
	TypeDetached = "D"
	TypeSemi     = "S"
	TypeTerraced = "T"
	TypeFlat     = "F"
	TypeOther    = "O"
)

// typeNames is ordered; label matching walks it front to back.
var typeNames = []struct {
	Code string
	Name string
}{
	{TypeSemi, "Semi-detached"},
	{TypeDetached, "Detached"},
	{TypeTerraced, "Terraced"},
	{TypeFlat, "Flat/Maisonette"},
	{TypeOther, "Other"},
}

// TypeName expands a PPD type code to its display name. Unknown codes
// pass through unchanged.
func TypeName(code string) string {
	for _, t := range typeNames {
		if t.Code == code {
			return t.Name
		}
	}
	return code
}

// TypeCodeFromLabel maps a PPD type label back to its single-letter
// code, defaulting to Other.
func TypeCodeFromLabel(label string) string {
	for _, t := range typeNames {
		if containsFold(label, t.Name) {
			return t.Code
		}
	}
	return TypeOther
}

// SoldPrice is one completed transaction from the Price Paid Data.
// Area is the normalized search term the row was fetched under.
type SoldPrice struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"-"`
	Area         string       `gorm:"index" json:"-"`
	Address      string       `json:"address"`
	Price        int          `json:"price"`
	Date         string       `json:"date"`
	PropertyType string       `json:"property_type"`
	NewBuild     bool         `json:"new_build"`
	Postcode     string       `json:"postcode"`
	FetchedAt    time.Time    `json:"-"`
}

func (SoldPrice) TableName() string { return "sold_prices" }

func (s SoldPrice) Summary() string {
	nb := ""
	if s.NewBuild {
		nb = " (new build)"
	}
	return fmt.Sprintf("%s — %s%s — %s — %s",
		money.FormatGBP(s.Price), TypeName(s.PropertyType), nb, s.Address, s.Date)
}

// SearchRequest queries sold prices. At least one of Postcode or Town
// must be set; Postcode may be a full postcode or an outcode prefix.
type SearchRequest struct {
	Postcode   string
	Town       string
	MaxResults int
	MinDate    string
}

// TypeStats is the per-property-type slice of an area summary.
type TypeStats struct {
	Count int `json:"count"`
	Avg   int `json:"avg"`
	Min   int `json:"min"`
	Max   int `json:"max"`
}

// AreaStats summarizes sold prices for a postcode prefix. Median is
// the upper median (element n/2 of the ascending order).
type AreaStats struct {
	Count          int                  `json:"count"`
	Min            int                  `json:"min,omitempty"`
	Max            int                  `json:"max,omitempty"`
	Mean           int                  `json:"mean,omitempty"`
	Median         int                  `json:"median,omitempty"`
	PostcodePrefix string               `json:"postcode_prefix,omitempty"`
	DateRange      string               `json:"date_range,omitempty"`
	ByType         map[string]TypeStats `json:"by_type,omitempty"`
	Message        string               `json:"message,omitempty"`
}

// Repository is the per-area sold-price cache.
type Repository interface {
	// ReplaceArea swaps the cached rows for an area in one transaction.
	ReplaceArea(ctx context.Context, area string, prices []SoldPrice) error
	ListByArea(ctx context.Context, area string, limit int) ([]SoldPrice, error)
}

// Service searches and summarizes Price Paid Data.
type Service interface {
	// SearchSoldPrices fetches from the live feed, refreshing the area
	// cache on success and serving from it when the feed fails.
	SearchSoldPrices(ctx context.Context, req SearchRequest) ([]SoldPrice, error)

	// AreaStats summarizes recent sales for a postcode prefix or town.
	AreaStats(ctx context.Context, req SearchRequest) (*AreaStats, error)

	// RefreshArea re-fetches an area into the cache, returning the row
	// count stored.
	RefreshArea(ctx context.Context, area string) (int, error)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
