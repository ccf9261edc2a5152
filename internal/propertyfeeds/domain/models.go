// Package domain holds the live property listing types. Listings come
// from Rightmove RSS feeds, the Zoopla API (key-gated) and the
// Nestoria API (free), unified into one shape.
package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/brickvale/homebuyer/pkg/money"
)

const (
	SourceRightmove = "rightmove"
	SourceZoopla    = "zoopla"
	SourceNestoria  = "nestoria"
	SourceManual    = "manual"
)

// Listing is one property for sale. A zero Price means price on
// application; a zero Bedrooms means the feed did not state it.
type Listing struct {
	Title         string  `json:"title"`
	Price         int     `json:"price,omitempty"`
	Address       string  `json:"address"`
	Bedrooms      int     `json:"bedrooms,omitempty"`
	Bathrooms     int     `json:"bathrooms,omitempty"`
	PropertyType  string  `json:"property_type,omitempty"`
	Description   string  `json:"description,omitempty"`
	URL           string  `json:"url,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	ListingStatus string  `json:"listing_status,omitempty"`
	AgentName     string  `json:"agent_name,omitempty"`
	ListedDate    string  `json:"listed_date,omitempty"`
	Latitude      float64 `json:"latitude,omitempty"`
	Longitude     float64 `json:"longitude,omitempty"`
	Source        string  `json:"source"`
}

func (l Listing) PriceDisplay() string {
	if l.Price > 0 {
		return money.FormatGBP(l.Price)
	}
	return "POA"
}

func (l Listing) Summary() string {
	beds := "? bed"
	if l.Bedrooms > 0 {
		beds = fmt.Sprintf("%d bed", l.Bedrooms)
	}
	return fmt.Sprintf("%s %s — %s\n  %s\n  %s", beds, l.PropertyType, l.PriceDisplay(), l.Address, l.URL)
}

// SearchCriteria filters listings locally on top of whatever the feed
// query returned. Zero-valued bounds are inactive; a listing with an
// unknown price or bedroom count passes the corresponding bound.
type SearchCriteria struct {
	Location        string
	MinPrice        int
	MaxPrice        int
	MinBedrooms     int
	MaxBedrooms     int
	PropertyType    string
	PropertyTypes   []string
	Keywords        string
	ExcludeKeywords []string
	RadiusMiles     float64
	ListingStatus   string
	MaxResults      int
}

func (c SearchCriteria) Matches(l Listing) bool {
	if c.MinPrice > 0 && l.Price > 0 && l.Price < c.MinPrice {
		return false
	}
	if c.MaxPrice > 0 && l.Price > 0 && l.Price > c.MaxPrice {
		return false
	}
	if c.MinBedrooms > 0 && l.Bedrooms > 0 && l.Bedrooms < c.MinBedrooms {
		return false
	}
	if c.MaxBedrooms > 0 && l.Bedrooms > 0 && l.Bedrooms > c.MaxBedrooms {
		return false
	}
	if c.PropertyType != "" {
		if !strings.Contains(strings.ToLower(l.PropertyType), strings.ToLower(c.PropertyType)) {
			return false
		}
	}
	if len(c.PropertyTypes) > 0 && l.PropertyType != "" {
		found := false
		for _, pt := range c.PropertyTypes {
			if strings.EqualFold(pt, l.PropertyType) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	text := strings.ToLower(l.Title + " " + l.Description + " " + l.Address)
	for _, kw := range strings.Fields(c.Keywords) {
		if !strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}
	for _, kw := range c.ExcludeKeywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// PriceStats summarizes the listings that carry a price.
type PriceStats struct {
	CountWithPrice int `json:"count_with_price"`
	Min            int `json:"min"`
	Max            int `json:"max"`
	Mean           int `json:"mean"`
	Median         int `json:"median"`
}

type TypeStats struct {
	Count    int `json:"count"`
	AvgPrice int `json:"avg_price,omitempty"`
	MinPrice int `json:"min_price,omitempty"`
	MaxPrice int `json:"max_price,omitempty"`
}

type BedroomStats struct {
	Count    int `json:"count"`
	AvgPrice int `json:"avg_price,omitempty"`
}

type AgentCount struct {
	Name     string `json:"name"`
	Listings int    `json:"listings"`
}

// SampleListing is the trimmed listing shape embedded in area stats.
type SampleListing struct {
	Title    string `json:"title"`
	Address  string `json:"address"`
	Price    string `json:"price"`
	Bedrooms int    `json:"bedrooms,omitempty"`
	Type     string `json:"type"`
	Agent    string `json:"agent,omitempty"`
	URL      string `json:"url,omitempty"`
	Source   string `json:"source"`
}

// AreaStats is the property market summary for a location.
type AreaStats struct {
	Count             int                     `json:"count"`
	Location          string                  `json:"location"`
	Prices            *PriceStats             `json:"prices,omitempty"`
	ByType            map[string]TypeStats    `json:"by_type,omitempty"`
	ByBedrooms        map[string]BedroomStats `json:"by_bedrooms,omitempty"`
	TopAgents         []AgentCount            `json:"top_agents,omitempty"`
	SourcesConfigured map[string]bool         `json:"sources_configured"`
	SampleListings    []SampleListing         `json:"sample_listings,omitempty"`
	Message           string                  `json:"message,omitempty"`
}

// Service searches the configured property feeds.
type Service interface {
	// Search queries Zoopla then Nestoria, applies the criteria
	// locally, dedupes by (address, price) and caps at MaxResults.
	// Feed failures degrade to whatever the other feeds returned.
	Search(ctx context.Context, criteria SearchCriteria) ([]Listing, error)

	// FetchRSS pulls a Rightmove RSS feed URL and filters it.
	FetchRSS(ctx context.Context, rssURL string, criteria SearchCriteria) ([]Listing, error)

	// AreaStats summarizes the market for a location.
	AreaStats(ctx context.Context, location string) (*AreaStats, error)

	// ManualListing builds a listing by hand for analysis when no feed
	// covers the property.
	ManualListing(address string, price, bedrooms int, propertyType, url, description string) Listing
}
