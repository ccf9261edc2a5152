// Package domain holds the Bank of England base-rate types. The rate
// feeds the mortgage engine; resolution never fails, it degrades from
// cache to live feed to the configured fallback.
package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNoRate = errors.New("rates: no parsable rate in feed response")

const (
	SourceCache    = "cache"
	SourceFeed     = "feed"
	SourceFallback = "fallback"
)

// Rate is a resolved base rate and where it came from.
type Rate struct {
	Value     float64   `json:"value"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Service resolves the current base rate.
type Service interface {
	// BaseRate resolves cache first, then the live feed, then the
	// configured fallback. It never returns an error.
	BaseRate(ctx context.Context) Rate

	// Refresh forces a live fetch and repopulates the cache.
	Refresh(ctx context.Context) (float64, error)
}
