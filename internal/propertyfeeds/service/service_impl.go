package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/brickvale/homebuyer/internal/clock"
	"github.com/brickvale/homebuyer/internal/observability/metrics"
	"github.com/brickvale/homebuyer/internal/propertyfeeds/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultMaxResults = 20
	statsSampleSize   = 50
	sampleListingCap  = 10
	topAgentCap       = 10
)

// ZooplaPortal is the key-gated Zoopla listing feed.
type ZooplaPortal interface {
	Search(ctx context.Context, criteria domain.SearchCriteria, page int) ([]domain.Listing, error)
	Configured() bool
}

// NestoriaPortal is the keyless Nestoria listing feed.
type NestoriaPortal interface {
	Search(ctx context.Context, criteria domain.SearchCriteria, page int) ([]domain.Listing, error)
}

// RSSFetcher pulls a Rightmove RSS saved-search feed.
type RSSFetcher interface {
	Fetch(ctx context.Context, rssURL string) ([]domain.Listing, error)
}

type Service struct {
	log      *zap.Logger
	zoopla   ZooplaPortal
	nestoria NestoriaPortal
	rss      RSSFetcher
	metrics  *metrics.FeedMetrics
	clock    clock.Clock
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Zoopla   ZooplaPortal
	Nestoria NestoriaPortal
	RSS      RSSFetcher
	Metrics  *metrics.FeedMetrics
	Clock    clock.Clock
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:      p.Log.Named("propertyfeeds.service"),
		zoopla:   p.Zoopla,
		nestoria: p.Nestoria,
		rss:      p.RSS,
		metrics:  p.Metrics,
		clock:    p.Clock,
	}
}

// Search merges the portals. A failing portal contributes nothing
// rather than failing the search.
func (s *Service) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Listing, error) {
	maxResults := criteria.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var merged []domain.Listing
	merged = append(merged, s.fromPortal(ctx, "zoopla", criteria, s.zoopla.Search)...)
	merged = append(merged, s.fromPortal(ctx, "nestoria", criteria, s.nestoria.Search)...)

	type dedupeKey struct {
		address string
		price   int
	}
	seen := make(map[dedupeKey]struct{}, len(merged))
	unique := make([]domain.Listing, 0, len(merged))
	for _, l := range merged {
		if !criteria.Matches(l) {
			continue
		}
		key := dedupeKey{address: strings.ToLower(strings.TrimSpace(l.Address)), price: l.Price}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, l)
		if len(unique) == maxResults {
			break
		}
	}
	return unique, nil
}

type portalSearch func(ctx context.Context, criteria domain.SearchCriteria, page int) ([]domain.Listing, error)

func (s *Service) fromPortal(ctx context.Context, feed string, criteria domain.SearchCriteria, search portalSearch) []domain.Listing {
	listings, err := search(ctx, criteria, 1)
	if err != nil {
		s.metrics.RecordFetch(feed, metrics.OutcomeError)
		s.log.Warn("portal search failed", zap.String("feed", feed), zap.Error(err))
		return nil
	}
	if len(listings) == 0 {
		s.metrics.RecordFetch(feed, metrics.OutcomeEmpty)
		return nil
	}
	s.metrics.RecordFetch(feed, metrics.OutcomeOK)
	return listings
}

func (s *Service) FetchRSS(ctx context.Context, rssURL string, criteria domain.SearchCriteria) ([]domain.Listing, error) {
	listings, err := s.rss.Fetch(ctx, rssURL)
	if err != nil {
		s.metrics.RecordFetch("rightmove_rss", metrics.OutcomeError)
		return nil, err
	}
	if len(listings) == 0 {
		s.metrics.RecordFetch("rightmove_rss", metrics.OutcomeEmpty)
	} else {
		s.metrics.RecordFetch("rightmove_rss", metrics.OutcomeOK)
	}

	filtered := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if criteria.Matches(l) {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

func (s *Service) AreaStats(ctx context.Context, location string) (*domain.AreaStats, error) {
	listings, err := s.Search(ctx, domain.SearchCriteria{Location: location, MaxResults: statsSampleSize})
	if err != nil {
		return nil, err
	}

	sources := map[string]bool{
		"zoopla":   s.zoopla.Configured(),
		"nestoria": true,
	}

	if len(listings) == 0 {
		return &domain.AreaStats{
			Count:             0,
			Location:          location,
			Message:           "No properties found - try a different location or check your ZOOPLA_API_KEY",
			SourcesConfigured: sources,
		}, nil
	}

	stats := &domain.AreaStats{
		Count:             len(listings),
		Location:          location,
		Prices:            priceStats(listings),
		ByType:            typeStats(listings),
		ByBedrooms:        bedroomStats(listings),
		TopAgents:         topAgents(listings),
		SourcesConfigured: sources,
	}

	for _, l := range listings[:min(len(listings), sampleListingCap)] {
		ptype := l.PropertyType
		if ptype == "" {
			ptype = "N/A"
		}
		stats.SampleListings = append(stats.SampleListings, domain.SampleListing{
			Title:    l.Title,
			Address:  l.Address,
			Price:    l.PriceDisplay(),
			Bedrooms: l.Bedrooms,
			Type:     ptype,
			Agent:    l.AgentName,
			URL:      l.URL,
			Source:   l.Source,
		})
	}
	return stats, nil
}

func (s *Service) ManualListing(address string, price, bedrooms int, propertyType, url, description string) domain.Listing {
	return domain.Listing{
		Title:        fmt.Sprintf("%d bed %s - %s", bedrooms, propertyType, address),
		Price:        price,
		Address:      address,
		Bedrooms:     bedrooms,
		PropertyType: propertyType,
		URL:          url,
		Description:  description,
		ListedDate:   s.clock.Now().Format("Mon, 02 Jan 2006 15:04:05"),
		Source:       domain.SourceManual,
	}
}

func priceStats(listings []domain.Listing) *domain.PriceStats {
	prices := make([]int, 0, len(listings))
	sum := 0
	for _, l := range listings {
		if l.Price > 0 {
			prices = append(prices, l.Price)
			sum += l.Price
		}
	}
	if len(prices) == 0 {
		return nil
	}
	sort.Ints(prices)
	n := len(prices)
	return &domain.PriceStats{
		CountWithPrice: n,
		Min:            prices[0],
		Max:            prices[n-1],
		Mean:           int(float64(sum)/float64(n) + 0.5),
		Median:         prices[n/2],
	}
}

func typeStats(listings []domain.Listing) map[string]domain.TypeStats {
	sums := make(map[string]int)
	priced := make(map[string]int)
	stats := make(map[string]domain.TypeStats)
	for _, l := range listings {
		key := typeKey(l)
		st := stats[key]
		st.Count++
		if l.Price > 0 {
			if st.MinPrice == 0 || l.Price < st.MinPrice {
				st.MinPrice = l.Price
			}
			if l.Price > st.MaxPrice {
				st.MaxPrice = l.Price
			}
			sums[key] += l.Price
			priced[key]++
		}
		stats[key] = st
	}
	for key, st := range stats {
		if priced[key] > 0 {
			st.AvgPrice = int(float64(sums[key])/float64(priced[key]) + 0.5)
			stats[key] = st
		}
	}
	return stats
}

func typeKey(l domain.Listing) string {
	if l.PropertyType == "" {
		return "Other"
	}
	return capitalize(l.PropertyType)
}

func bedroomStats(listings []domain.Listing) map[string]domain.BedroomStats {
	sums := make(map[string]int)
	priced := make(map[string]int)
	stats := make(map[string]domain.BedroomStats)
	for _, l := range listings {
		key := "Unknown"
		if l.Bedrooms > 0 {
			key = fmt.Sprintf("%d bed", l.Bedrooms)
		}
		st := stats[key]
		st.Count++
		stats[key] = st
		if l.Price > 0 {
			sums[key] += l.Price
			priced[key]++
		}
	}
	for key, st := range stats {
		if priced[key] > 0 {
			st.AvgPrice = int(float64(sums[key])/float64(priced[key]) + 0.5)
			stats[key] = st
		}
	}
	return stats
}

func topAgents(listings []domain.Listing) []domain.AgentCount {
	counts := make(map[string]int)
	for _, l := range listings {
		if l.AgentName != "" {
			counts[l.AgentName]++
		}
	}
	agents := make([]domain.AgentCount, 0, len(counts))
	for name, n := range counts {
		agents = append(agents, domain.AgentCount{Name: name, Listings: n})
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Listings != agents[j].Listings {
			return agents[i].Listings > agents[j].Listings
		}
		return agents[i].Name < agents[j].Name
	})
	if len(agents) > topAgentCap {
		agents = agents[:topAgentCap]
	}
	return agents
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
