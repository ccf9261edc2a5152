package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/brickvale/homebuyer/internal/jobsearch/domain"
	"go.uber.org/zap"
)

// contractTypeParams maps the user-facing contract labels to Adzuna's
// contract_type query values. Adzuna treats temp work as contract.
var contractTypeParams = map[string]string{
	"permanent": "permanent",
	"contract":  "contract",
	"temp":      "contract",
}

type AdzunaClient struct {
	http   *http.Client
	base   string
	appID  string
	appKey string
	log    *zap.Logger
}

func NewAdzunaClient(base, appID, appKey string, log *zap.Logger) *AdzunaClient {
	return &AdzunaClient{
		http:   &http.Client{Timeout: 15 * time.Second},
		base:   base,
		appID:  appID,
		appKey: appKey,
		log:    log.Named("jobsearch.adzuna"),
	}
}

// Configured reports whether both application credentials are present.
func (c *AdzunaClient) Configured() bool { return c.appID != "" && c.appKey != "" }

type adzunaResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		SalaryMin    float64 `json:"salary_min"`
		SalaryMax    float64 `json:"salary_max"`
		Description  string  `json:"description"`
		RedirectURL  string  `json:"redirect_url"`
		Created      string  `json:"created"`
		ContractType string  `json:"contract_type"`
		Category     struct {
			Label string `json:"label"`
		} `json:"category"`
	} `json:"results"`
}

// Search queries one page of the Adzuna GB search API. Without
// credentials it returns no results and no error.
func (c *AdzunaClient) Search(ctx context.Context, criteria domain.JobSearchCriteria, page int) ([]domain.JobListing, error) {
	if !c.Configured() {
		return nil, nil
	}

	perPage := criteria.MaxResults
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 50 {
		perPage = 50
	}

	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("results_per_page", strconv.Itoa(perPage))
	if criteria.Keywords != "" {
		params.Set("what", criteria.Keywords)
	}
	if criteria.Location != "" {
		params.Set("where", criteria.Location)
		distance := criteria.DistanceKM
		if distance <= 0 {
			distance = 16
		}
		params.Set("distance", strconv.Itoa(distance))
	}
	if criteria.MinSalary > 0 {
		params.Set("salary_min", strconv.Itoa(criteria.MinSalary))
	}
	if criteria.MaxSalary > 0 {
		params.Set("salary_max", strconv.Itoa(criteria.MaxSalary))
	}
	if ct, ok := contractTypeParams[criteria.ContractType]; ok {
		params.Set("contract_type", ct)
	}
	if tag, ok := domain.AdzunaCategories[criteria.Category]; ok {
		params.Set("category", tag)
	}

	endpoint := fmt.Sprintf("%s/search/%d?%s", c.base, page, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch adzuna jobs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch adzuna jobs: unexpected status %d", resp.StatusCode)
	}

	var body adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode adzuna jobs: %w", err)
	}

	jobs := make([]domain.JobListing, 0, len(body.Results))
	for _, item := range body.Results {
		company := item.Company.DisplayName
		if company == "" {
			company = "Unknown"
		}
		posted := item.Created
		if len(posted) >= 10 {
			posted = posted[:10]
		}
		jobs = append(jobs, domain.JobListing{
			Title:        item.Title,
			Company:      company,
			Location:     item.Location.DisplayName,
			SalaryMin:    item.SalaryMin,
			SalaryMax:    item.SalaryMax,
			Description:  truncate(item.Description, 500),
			URL:          item.RedirectURL,
			Posted:       posted,
			ContractType: item.ContractType,
			Category:     item.Category.Label,
			Source:       domain.SourceAdzuna,
		})
	}
	return jobs, nil
}

type adzunaHistoryResponse struct {
	Month map[string]float64 `json:"month"`
}

// SalaryHistory returns the last six months of Adzuna's average salary
// series for a location. Months come back in ascending order. A nil
// result with nil error means no data.
func (c *AdzunaClient) SalaryHistory(ctx context.Context, location, category string) (*domain.SalaryHistory, error) {
	if !c.Configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("location0", "UK")
	if location != "" {
		params.Set("location1", location)
	}
	if tag, ok := domain.AdzunaCategories[category]; ok {
		params.Set("category", tag)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/history?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch adzuna salary history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch adzuna salary history: unexpected status %d", resp.StatusCode)
	}

	var body adzunaHistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode adzuna salary history: %w", err)
	}
	if len(body.Month) == 0 {
		return nil, nil
	}

	months := make([]string, 0, len(body.Month))
	for m := range body.Month {
		months = append(months, m)
	}
	sort.Strings(months)
	if len(months) > 6 {
		months = months[len(months)-6:]
	}

	trend := make([]float64, 0, len(months))
	sum := 0.0
	for _, m := range months {
		trend = append(trend, body.Month[m])
		sum += body.Month[m]
	}
	return &domain.SalaryHistory{
		AvgSalary: int(sum/float64(len(trend)) + 0.5),
		Trend:     trend,
		Months:    months,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
