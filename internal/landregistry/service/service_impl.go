package service

import (
	"context"
	"sort"
	"strings"

	"github.com/brickvale/homebuyer/internal/clock"
	"github.com/brickvale/homebuyer/internal/landregistry/domain"
	"github.com/brickvale/homebuyer/internal/observability/metrics"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultMaxResults = 20
	statsSampleSize   = 50
	statsMinDate      = "2023-01-01"
)

// Searcher fetches sold prices from the live Price Paid Data feed.
type Searcher interface {
	Search(ctx context.Context, postcode, town string, maxResults int) ([]domain.SoldPrice, error)
}

type Service struct {
	log      *zap.Logger
	searcher Searcher
	repo     domain.Repository
	node     *snowflake.Node
	metrics  *metrics.FeedMetrics
	clock    clock.Clock
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Searcher Searcher
	Repo     domain.Repository
	Node     *snowflake.Node
	Metrics  *metrics.FeedMetrics
	Clock    clock.Clock
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:      p.Log.Named("landregistry.service"),
		searcher: p.Searcher,
		repo:     p.Repo,
		node:     p.Node,
		metrics:  p.Metrics,
		clock:    p.Clock,
	}
}

func (s *Service) SearchSoldPrices(ctx context.Context, req domain.SearchRequest) ([]domain.SoldPrice, error) {
	postcode := strings.ToUpper(strings.TrimSpace(req.Postcode))
	town := strings.ToUpper(strings.TrimSpace(req.Town))
	if postcode == "" && town == "" {
		return nil, domain.ErrNoSearchTerms
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	area := postcode
	if area == "" {
		area = town
	}

	prices, err := s.searcher.Search(ctx, postcode, town, maxResults)
	if err != nil {
		s.metrics.RecordFetch("land_registry", metrics.OutcomeError)
		cached, cerr := s.repo.ListByArea(ctx, area, maxResults)
		if cerr == nil && len(cached) > 0 {
			s.log.Warn("sold price feed unavailable, serving cached area",
				zap.String("area", area),
				zap.Int("rows", len(cached)),
				zap.Error(err))
			return cached, nil
		}
		return nil, err
	}

	if len(prices) == 0 {
		s.metrics.RecordFetch("land_registry", metrics.OutcomeEmpty)
		return prices, nil
	}
	s.metrics.RecordFetch("land_registry", metrics.OutcomeOK)

	now := s.clock.Now()
	for i := range prices {
		prices[i].ID = s.node.Generate()
		prices[i].Area = area
		prices[i].FetchedAt = now
	}
	if err := s.repo.ReplaceArea(ctx, area, prices); err != nil {
		s.log.Warn("sold price cache write failed", zap.String("area", area), zap.Error(err))
	}
	return prices, nil
}

// AreaStats never fails on feed problems; an unreachable feed with an
// empty cache reads as an area with no data.
func (s *Service) AreaStats(ctx context.Context, req domain.SearchRequest) (*domain.AreaStats, error) {
	req.MaxResults = statsSampleSize
	req.MinDate = statsMinDate
	sales, err := s.SearchSoldPrices(ctx, req)
	if err == domain.ErrNoSearchTerms {
		return nil, err
	}
	if err != nil || len(sales) == 0 {
		return &domain.AreaStats{Count: 0, Message: "No data found for this area"}, nil
	}

	prices := make([]int, len(sales))
	sum := 0
	for i, sale := range sales {
		prices[i] = sale.Price
		sum += sale.Price
	}
	sort.Ints(prices)
	n := len(prices)

	return &domain.AreaStats{
		Count:          n,
		Min:            prices[0],
		Max:            prices[n-1],
		Mean:           sum / n,
		Median:         prices[n/2],
		PostcodePrefix: searchLabel(req),
		DateRange:      statsMinDate + " to present",
		ByType:         groupByType(sales),
	}, nil
}

func searchLabel(req domain.SearchRequest) string {
	if req.Postcode != "" {
		return req.Postcode
	}
	return req.Town
}

func (s *Service) RefreshArea(ctx context.Context, area string) (int, error) {
	prices, err := s.SearchSoldPrices(ctx, domain.SearchRequest{
		Postcode:   area,
		MaxResults: statsSampleSize,
	})
	if err != nil {
		return 0, err
	}
	return len(prices), nil
}

func groupByType(sales []domain.SoldPrice) map[string]domain.TypeStats {
	groups := make(map[string][]int)
	for _, sale := range sales {
		name := domain.TypeName(sale.PropertyType)
		groups[name] = append(groups[name], sale.Price)
	}

	stats := make(map[string]domain.TypeStats, len(groups))
	for name, prices := range groups {
		st := domain.TypeStats{Count: len(prices), Min: prices[0], Max: prices[0]}
		sum := 0
		for _, p := range prices {
			sum += p
			if p < st.Min {
				st.Min = p
			}
			if p > st.Max {
				st.Max = p
			}
		}
		st.Avg = sum / len(prices)
		stats[name] = st
	}
	return stats
}
