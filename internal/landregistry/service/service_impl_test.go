package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brickvale/homebuyer/internal/clock"
	"github.com/brickvale/homebuyer/internal/landregistry/domain"
	"github.com/brickvale/homebuyer/internal/landregistry/repository"
	"github.com/brickvale/homebuyer/internal/observability/metrics"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubSearcher struct {
	prices []domain.SoldPrice
	err    error
	calls  int
}

func (s *stubSearcher) Search(ctx context.Context, postcode, town string, maxResults int) ([]domain.SoldPrice, error) {
	s.calls++
	return s.prices, s.err
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

func newService(t *testing.T, searcher Searcher) (domain.Service, *gorm.DB) {
	t.Helper()
	restore := swapPrometheusRegistry(prometheus.NewRegistry())
	t.Cleanup(restore)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SoldPrice{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		Log:      zap.NewNop(),
		Searcher: searcher,
		Repo:     repository.NewRepository(db),
		Node:     node,
		Metrics:  metrics.NewFeedMetrics(metrics.Config{ServiceName: "test", Environment: "test"}),
		Clock:    clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	})
	return svc, db
}

func fixtureSales() []domain.SoldPrice {
	return []domain.SoldPrice{
		{Address: "12, HIGH STREET, GUILDFORD, GU1 3AA", Price: 425_000, Date: "2025-11-03", PropertyType: domain.TypeSemi, Postcode: "GU1 3AA"},
		{Address: "FLAT 2, 8, CASTLE SQUARE, GUILDFORD, GU1 3UW", Price: 310_000, Date: "2025-10-21", PropertyType: domain.TypeFlat, NewBuild: true, Postcode: "GU1 3UW"},
		{Address: "4, OAK LANE, GUILDFORD, GU1 2LP", Price: 610_000, Date: "2025-09-14", PropertyType: domain.TypeDetached, Postcode: "GU1 2LP"},
		{Address: "9, OAK LANE, GUILDFORD, GU1 2LP", Price: 580_000, Date: "2025-08-02", PropertyType: domain.TypeDetached, Postcode: "GU1 2LP"},
	}
}

func TestSearchSoldPrices_PopulatesCache(t *testing.T) {
	svc, db := newService(t, &stubSearcher{prices: fixtureSales()})

	prices, err := svc.SearchSoldPrices(context.Background(), domain.SearchRequest{Postcode: "gu1"})
	require.NoError(t, err)
	require.Len(t, prices, 4)

	for _, p := range prices {
		assert.NotZero(t, p.ID)
		assert.Equal(t, "GU1", p.Area)
		assert.False(t, p.FetchedAt.IsZero())
	}

	var count int64
	db.Model(&domain.SoldPrice{}).Where("area = ?", "GU1").Count(&count)
	assert.EqualValues(t, 4, count)
}

func TestSearchSoldPrices_ServesCacheWhenFeedDown(t *testing.T) {
	searcher := &stubSearcher{prices: fixtureSales()}
	svc, _ := newService(t, searcher)

	_, err := svc.SearchSoldPrices(context.Background(), domain.SearchRequest{Postcode: "GU1"})
	require.NoError(t, err)

	searcher.err = errors.New("gateway timeout")
	searcher.prices = nil

	prices, err := svc.SearchSoldPrices(context.Background(), domain.SearchRequest{Postcode: "GU1"})
	require.NoError(t, err)
	assert.Len(t, prices, 4)
	// Cache rows come back newest first.
	assert.Equal(t, "2025-11-03", prices[0].Date)
}

func TestSearchSoldPrices_FeedDownEmptyCache(t *testing.T) {
	svc, _ := newService(t, &stubSearcher{err: errors.New("unreachable")})

	_, err := svc.SearchSoldPrices(context.Background(), domain.SearchRequest{Postcode: "GU1"})
	assert.Error(t, err)
}

func TestSearchSoldPrices_RequiresSearchTerm(t *testing.T) {
	svc, _ := newService(t, &stubSearcher{})

	_, err := svc.SearchSoldPrices(context.Background(), domain.SearchRequest{})
	assert.ErrorIs(t, err, domain.ErrNoSearchTerms)
}

func TestSearchSoldPrices_RefetchReplacesArea(t *testing.T) {
	searcher := &stubSearcher{prices: fixtureSales()}
	svc, db := newService(t, searcher)

	_, err := svc.SearchSoldPrices(context.Background(), domain.SearchRequest{Postcode: "GU1"})
	require.NoError(t, err)

	searcher.prices = fixtureSales()[:2]
	_, err = svc.SearchSoldPrices(context.Background(), domain.SearchRequest{Postcode: "GU1"})
	require.NoError(t, err)

	var count int64
	db.Model(&domain.SoldPrice{}).Where("area = ?", "GU1").Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestAreaStats_Summary(t *testing.T) {
	svc, _ := newService(t, &stubSearcher{prices: fixtureSales()})

	stats, err := svc.AreaStats(context.Background(), domain.SearchRequest{Postcode: "GU1"})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 310_000, stats.Min)
	assert.Equal(t, 610_000, stats.Max)
	assert.Equal(t, (425_000+310_000+610_000+580_000)/4, stats.Mean)
	// Upper median of {310000, 425000, 580000, 610000}.
	assert.Equal(t, 580_000, stats.Median)
	assert.Equal(t, "GU1", stats.PostcodePrefix)
	assert.Equal(t, "2023-01-01 to present", stats.DateRange)

	require.Contains(t, stats.ByType, "Detached")
	det := stats.ByType["Detached"]
	assert.Equal(t, 2, det.Count)
	assert.Equal(t, 595_000, det.Avg)
	assert.Equal(t, 580_000, det.Min)
	assert.Equal(t, 610_000, det.Max)
}

func TestAreaStats_NoData(t *testing.T) {
	svc, _ := newService(t, &stubSearcher{err: errors.New("unreachable")})

	stats, err := svc.AreaStats(context.Background(), domain.SearchRequest{Postcode: "ZZ99"})
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Equal(t, "No data found for this area", stats.Message)
}

func TestRefreshArea_ReturnsRowCount(t *testing.T) {
	svc, db := newService(t, &stubSearcher{prices: fixtureSales()})

	n, err := svc.RefreshArea(context.Background(), "GU1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var count int64
	db.Model(&domain.SoldPrice{}).Count(&count)
	assert.EqualValues(t, 4, count)
}
