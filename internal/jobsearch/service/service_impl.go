package service

import (
	"context"
	"sort"
	"strings"

	"github.com/brickvale/homebuyer/internal/jobsearch/domain"
	"github.com/brickvale/homebuyer/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultMaxResults = 20
	statsSampleSize   = 50
	sampleJobCap      = 10
	topEmployerCap    = 10
)

// AdzunaPortal is the credential-gated Adzuna aggregator feed.
type AdzunaPortal interface {
	Search(ctx context.Context, criteria domain.JobSearchCriteria, page int) ([]domain.JobListing, error)
	SalaryHistory(ctx context.Context, location, category string) (*domain.SalaryHistory, error)
	Configured() bool
}

// ReedPortal is the key-gated Reed job board feed.
type ReedPortal interface {
	Search(ctx context.Context, criteria domain.JobSearchCriteria, page int) ([]domain.JobListing, error)
	Configured() bool
}

type Service struct {
	log     *zap.Logger
	adzuna  AdzunaPortal
	reed    ReedPortal
	metrics *metrics.FeedMetrics
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Adzuna  AdzunaPortal
	Reed    ReedPortal
	Metrics *metrics.FeedMetrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:     p.Log.Named("jobsearch.service"),
		adzuna:  p.Adzuna,
		reed:    p.Reed,
		metrics: p.Metrics,
	}
}

// Search merges the job boards. A failing board contributes nothing
// rather than failing the search.
func (s *Service) Search(ctx context.Context, criteria domain.JobSearchCriteria) ([]domain.JobListing, error) {
	maxResults := criteria.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var merged []domain.JobListing
	merged = append(merged, s.fromPortal(ctx, "adzuna", criteria, s.adzuna.Search)...)
	merged = append(merged, s.fromPortal(ctx, "reed", criteria, s.reed.Search)...)

	type dedupeKey struct {
		title   string
		company string
	}
	seen := make(map[dedupeKey]struct{}, len(merged))
	unique := make([]domain.JobListing, 0, len(merged))
	for _, j := range merged {
		if !criteria.Matches(j) {
			continue
		}
		key := dedupeKey{
			title:   strings.ToLower(strings.TrimSpace(j.Title)),
			company: strings.ToLower(strings.TrimSpace(j.Company)),
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, j)
		if len(unique) == maxResults {
			break
		}
	}
	return unique, nil
}

type portalSearch func(ctx context.Context, criteria domain.JobSearchCriteria, page int) ([]domain.JobListing, error)

func (s *Service) fromPortal(ctx context.Context, feed string, criteria domain.JobSearchCriteria, search portalSearch) []domain.JobListing {
	jobs, err := search(ctx, criteria, 1)
	if err != nil {
		s.metrics.RecordFetch(feed, metrics.OutcomeError)
		s.log.Warn("job board search failed", zap.String("feed", feed), zap.Error(err))
		return nil
	}
	if len(jobs) == 0 {
		s.metrics.RecordFetch(feed, metrics.OutcomeEmpty)
		return nil
	}
	s.metrics.RecordFetch(feed, metrics.OutcomeOK)
	return jobs
}

func (s *Service) AreaStats(ctx context.Context, location string) (*domain.AreaStats, error) {
	jobs, err := s.Search(ctx, domain.JobSearchCriteria{Location: location, MaxResults: statsSampleSize})
	if err != nil {
		return nil, err
	}

	sources := map[string]bool{
		"adzuna": s.adzuna.Configured(),
		"reed":   s.reed.Configured(),
	}

	if len(jobs) == 0 {
		return &domain.AreaStats{
			Count:             0,
			Location:          location,
			Message:           "No jobs found - check your API keys (ADZUNA_APP_ID/ADZUNA_APP_KEY or REED_API_KEY)",
			SourcesConfigured: sources,
		}, nil
	}

	stats := &domain.AreaStats{
		Count:             len(jobs),
		Location:          location,
		Salary:            salaryStats(jobs),
		ByCategory:        categoryStats(jobs),
		ByContract:        contractStats(jobs),
		TopEmployers:      topEmployers(jobs),
		SourcesConfigured: sources,
	}

	for _, j := range jobs[:min(len(jobs), sampleJobCap)] {
		ct := j.ContractType
		if ct == "" {
			ct = "N/A"
		}
		stats.SampleJobs = append(stats.SampleJobs, domain.SampleJob{
			Title:   j.Title,
			Company: j.Company,
			Salary:  j.SalaryDisplay(),
			Type:    ct,
			URL:     j.URL,
		})
	}
	return stats, nil
}

func (s *Service) SalaryHistory(ctx context.Context, location, category string) (*domain.SalaryHistory, error) {
	history, err := s.adzuna.SalaryHistory(ctx, location, category)
	if err != nil {
		s.metrics.RecordFetch("adzuna_history", metrics.OutcomeError)
		return nil, err
	}
	if history == nil {
		s.metrics.RecordFetch("adzuna_history", metrics.OutcomeEmpty)
		return nil, nil
	}
	s.metrics.RecordFetch("adzuna_history", metrics.OutcomeOK)
	return history, nil
}

func salaryStats(jobs []domain.JobListing) *domain.SalaryStats {
	mids := make([]float64, 0, len(jobs))
	sum := 0.0
	for _, j := range jobs {
		if mid := j.SalaryMid(); mid > 0 {
			mids = append(mids, mid)
			sum += mid
		}
	}
	if len(mids) == 0 {
		return nil
	}
	sort.Float64s(mids)
	n := len(mids)
	return &domain.SalaryStats{
		CountWithSalary: n,
		Min:             int(mids[0] + 0.5),
		Max:             int(mids[n-1] + 0.5),
		Mean:            int(sum/float64(n) + 0.5),
		Median:          int(mids[n/2] + 0.5),
	}
}

func categoryStats(jobs []domain.JobListing) map[string]domain.CategoryStats {
	sums := make(map[string]float64)
	salaried := make(map[string]int)
	stats := make(map[string]domain.CategoryStats)
	for _, j := range jobs {
		key := j.Category
		if key == "" {
			key = "Other"
		}
		st := stats[key]
		st.Count++
		stats[key] = st
		if mid := j.SalaryMid(); mid > 0 {
			sums[key] += mid
			salaried[key]++
		}
	}
	for key, st := range stats {
		if salaried[key] > 0 {
			st.AvgSalary = int(sums[key]/float64(salaried[key]) + 0.5)
			stats[key] = st
		}
	}
	return stats
}

func contractStats(jobs []domain.JobListing) map[string]int {
	counts := make(map[string]int)
	for _, j := range jobs {
		key := "Not specified"
		if j.ContractType != "" {
			key = capitalize(j.ContractType)
		}
		counts[key]++
	}
	return counts
}

func topEmployers(jobs []domain.JobListing) []domain.EmployerCount {
	counts := make(map[string]int)
	for _, j := range jobs {
		if j.Company != "" && j.Company != "Unknown" {
			counts[j.Company]++
		}
	}
	employers := make([]domain.EmployerCount, 0, len(counts))
	for name, n := range counts {
		employers = append(employers, domain.EmployerCount{Name: name, Openings: n})
	}
	sort.Slice(employers, func(i, j int) bool {
		if employers[i].Openings != employers[j].Openings {
			return employers[i].Openings > employers[j].Openings
		}
		return employers[i].Name < employers[j].Name
	})
	if len(employers) > topEmployerCap {
		employers = employers[:topEmployerCap]
	}
	return employers
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
