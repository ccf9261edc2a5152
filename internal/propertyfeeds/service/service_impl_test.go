package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brickvale/homebuyer/internal/clock"
	"github.com/brickvale/homebuyer/internal/observability/metrics"
	"github.com/brickvale/homebuyer/internal/propertyfeeds/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPortal struct {
	listings   []domain.Listing
	err        error
	configured bool
}

func (s *stubPortal) Search(ctx context.Context, criteria domain.SearchCriteria, page int) ([]domain.Listing, error) {
	return s.listings, s.err
}

func (s *stubPortal) Configured() bool { return s.configured }

type stubRSS struct {
	listings []domain.Listing
	err      error
}

func (s *stubRSS) Fetch(ctx context.Context, rssURL string) ([]domain.Listing, error) {
	return s.listings, s.err
}

func swapPrometheusRegistry(registry *prometheus.Registry) func() {
	oldRegisterer := prometheus.DefaultRegisterer
	oldGatherer := prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
	return func() {
		prometheus.DefaultRegisterer = oldRegisterer
		prometheus.DefaultGatherer = oldGatherer
	}
}

func newService(t *testing.T, zoopla *stubPortal, nestoria *stubPortal, rss *stubRSS) domain.Service {
	t.Helper()
	restore := swapPrometheusRegistry(prometheus.NewRegistry())
	t.Cleanup(restore)

	return NewService(ServiceParam{
		Log:      zap.NewNop(),
		Zoopla:   zoopla,
		Nestoria: nestoria,
		RSS:      rss,
		Metrics:  metrics.NewFeedMetrics(metrics.Config{ServiceName: "test", Environment: "test"}),
		Clock:    clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	})
}

func listing(address string, price, beds int, ptype, agent, source string) domain.Listing {
	return domain.Listing{
		Title:        address,
		Address:      address,
		Price:        price,
		Bedrooms:     beds,
		PropertyType: ptype,
		AgentName:    agent,
		Source:       source,
	}
}

func TestSearch_MergesAndDedupes(t *testing.T) {
	zoopla := &stubPortal{configured: true, listings: []domain.Listing{
		listing("12 Oak Lane, Guildford", 425_000, 3, "semi-detached", "Acme Homes", domain.SourceZoopla),
		listing("8 Castle Square, Guildford", 310_000, 2, "flat", "Acme Homes", domain.SourceZoopla),
	}}
	nestoria := &stubPortal{listings: []domain.Listing{
		// Same property as the first Zoopla row, differing only in case.
		listing("12 OAK LANE, GUILDFORD", 425_000, 3, "semi-detached", "Acme Homes", domain.SourceNestoria),
		listing("4 Mill Road, Guildford", 550_000, 4, "detached", "Hearth & Co", domain.SourceNestoria),
	}}
	svc := newService(t, zoopla, nestoria, &stubRSS{})

	results, err := svc.Search(context.Background(), domain.SearchCriteria{Location: "Guildford"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Zoopla rows come first, then the non-duplicate Nestoria row.
	assert.Equal(t, domain.SourceZoopla, results[0].Source)
	assert.Equal(t, "4 Mill Road, Guildford", results[2].Address)
}

func TestSearch_PortalFailureDegrades(t *testing.T) {
	zoopla := &stubPortal{err: errors.New("zoopla down")}
	nestoria := &stubPortal{listings: []domain.Listing{
		listing("4 Mill Road, Guildford", 550_000, 4, "detached", "Hearth & Co", domain.SourceNestoria),
	}}
	svc := newService(t, zoopla, nestoria, &stubRSS{})

	results, err := svc.Search(context.Background(), domain.SearchCriteria{Location: "Guildford"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.SourceNestoria, results[0].Source)
}

func TestSearch_AppliesCriteriaAndCap(t *testing.T) {
	var rows []domain.Listing
	for i := 0; i < 30; i++ {
		rows = append(rows, listing(
			"4 Mill Road, Guildford "+string(rune('A'+i)), 500_000+i*1_000, 4, "detached", "Hearth & Co", domain.SourceNestoria))
	}
	rows = append(rows, listing("Cheap Flat, Guildford", 150_000, 1, "flat", "Acme Homes", domain.SourceNestoria))
	svc := newService(t, &stubPortal{}, &stubPortal{listings: rows}, &stubRSS{})

	results, err := svc.Search(context.Background(), domain.SearchCriteria{
		Location:   "Guildford",
		MinPrice:   400_000,
		MaxResults: 5,
	})
	require.NoError(t, err)
	assert.Len(t, results, 5)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Price, 400_000)
	}
}

func TestCriteria_Matching(t *testing.T) {
	l := domain.Listing{
		Title:        "3 bed semi with garden",
		Address:      "Oak Lane, Guildford",
		Description:  "South facing garden and garage",
		Price:        425_000,
		Bedrooms:     3,
		PropertyType: "semi-detached",
	}

	assert.True(t, domain.SearchCriteria{}.Matches(l))
	assert.True(t, domain.SearchCriteria{MinPrice: 400_000, MaxPrice: 450_000}.Matches(l))
	assert.False(t, domain.SearchCriteria{MaxPrice: 400_000}.Matches(l))
	assert.False(t, domain.SearchCriteria{MinBedrooms: 4}.Matches(l))
	assert.True(t, domain.SearchCriteria{PropertyType: "semi"}.Matches(l))
	assert.False(t, domain.SearchCriteria{PropertyType: "bungalow"}.Matches(l))
	assert.True(t, domain.SearchCriteria{Keywords: "garden garage"}.Matches(l))
	assert.False(t, domain.SearchCriteria{Keywords: "garden pool"}.Matches(l))
	assert.False(t, domain.SearchCriteria{ExcludeKeywords: []string{"garage"}}.Matches(l))
	assert.True(t, domain.SearchCriteria{PropertyTypes: []string{"semi-detached", "detached"}}.Matches(l))
	assert.False(t, domain.SearchCriteria{PropertyTypes: []string{"flat"}}.Matches(l))

	// Unknown price and bedrooms pass the bounds.
	poa := domain.Listing{Title: "POA listing", Address: "Somewhere"}
	assert.True(t, domain.SearchCriteria{MinPrice: 1_000_000, MinBedrooms: 5}.Matches(poa))
}

func TestFetchRSS_Filters(t *testing.T) {
	rss := &stubRSS{listings: []domain.Listing{
		listing("12 Oak Lane", 425_000, 3, "semi-detached", "", domain.SourceRightmove),
		listing("99 Pricey Drive", 900_000, 5, "detached", "", domain.SourceRightmove),
	}}
	svc := newService(t, &stubPortal{}, &stubPortal{}, rss)

	results, err := svc.FetchRSS(context.Background(), "https://example.com/rss.jsp", domain.SearchCriteria{MaxPrice: 500_000})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "12 Oak Lane", results[0].Address)
}

func TestFetchRSS_PropagatesError(t *testing.T) {
	svc := newService(t, &stubPortal{}, &stubPortal{}, &stubRSS{err: errors.New("403")})

	_, err := svc.FetchRSS(context.Background(), "https://example.com/rss.jsp", domain.SearchCriteria{})
	assert.Error(t, err)
}

func TestAreaStats_Summary(t *testing.T) {
	nestoria := &stubPortal{listings: []domain.Listing{
		listing("12 Oak Lane", 400_000, 3, "semi-detached", "Acme Homes", domain.SourceNestoria),
		listing("14 Oak Lane", 500_000, 3, "semi-detached", "Acme Homes", domain.SourceNestoria),
		listing("8 Castle Square", 300_000, 2, "flat", "Hearth & Co", domain.SourceNestoria),
		listing("POA Cottage", 0, 0, "", "Acme Homes", domain.SourceNestoria),
	}}
	svc := newService(t, &stubPortal{}, nestoria, &stubRSS{})

	stats, err := svc.AreaStats(context.Background(), "Guildford")
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, "Guildford", stats.Location)

	require.NotNil(t, stats.Prices)
	assert.Equal(t, 3, stats.Prices.CountWithPrice)
	assert.Equal(t, 300_000, stats.Prices.Min)
	assert.Equal(t, 500_000, stats.Prices.Max)
	assert.Equal(t, 400_000, stats.Prices.Mean)
	// Upper median of {300000, 400000, 500000}.
	assert.Equal(t, 400_000, stats.Prices.Median)

	require.Contains(t, stats.ByType, "Semi-detached")
	semi := stats.ByType["Semi-detached"]
	assert.Equal(t, 2, semi.Count)
	assert.Equal(t, 450_000, semi.AvgPrice)
	require.Contains(t, stats.ByType, "Other")
	assert.Equal(t, 1, stats.ByType["Other"].Count)

	require.Contains(t, stats.ByBedrooms, "3 bed")
	assert.Equal(t, 2, stats.ByBedrooms["3 bed"].Count)
	require.Contains(t, stats.ByBedrooms, "Unknown")

	require.NotEmpty(t, stats.TopAgents)
	assert.Equal(t, "Acme Homes", stats.TopAgents[0].Name)
	assert.Equal(t, 3, stats.TopAgents[0].Listings)

	assert.False(t, stats.SourcesConfigured["zoopla"])
	assert.True(t, stats.SourcesConfigured["nestoria"])

	require.Len(t, stats.SampleListings, 4)
	assert.Equal(t, "POA", stats.SampleListings[3].Price)
	assert.Equal(t, "N/A", stats.SampleListings[3].Type)
}

func TestAreaStats_NoListings(t *testing.T) {
	svc := newService(t, &stubPortal{}, &stubPortal{}, &stubRSS{})

	stats, err := svc.AreaStats(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.NotEmpty(t, stats.Message)
	assert.Nil(t, stats.Prices)
}

func TestManualListing(t *testing.T) {
	svc := newService(t, &stubPortal{}, &stubPortal{}, &stubRSS{})

	l := svc.ManualListing("12 Oak Lane, Guildford", 425_000, 3, "semi-detached", "https://example.com", "needs work")
	assert.Equal(t, "3 bed semi-detached - 12 Oak Lane, Guildford", l.Title)
	assert.Equal(t, 425_000, l.Price)
	assert.Equal(t, domain.SourceManual, l.Source)
	assert.Equal(t, "Sun, 01 Mar 2026 12:00:00", l.ListedDate)
}
