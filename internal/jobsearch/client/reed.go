package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/brickvale/homebuyer/internal/jobsearch/domain"
	"go.uber.org/zap"
)

type ReedClient struct {
	http   *http.Client
	base   string
	apiKey string
	log    *zap.Logger
}

func NewReedClient(base, apiKey string, log *zap.Logger) *ReedClient {
	return &ReedClient{
		http:   &http.Client{Timeout: 15 * time.Second},
		base:   base,
		apiKey: apiKey,
		log:    log.Named("jobsearch.reed"),
	}
}

// Configured reports whether an API key is present.
func (c *ReedClient) Configured() bool { return c.apiKey != "" }

type reedResponse struct {
	Results []struct {
		JobTitle       string  `json:"jobTitle"`
		EmployerName   string  `json:"employerName"`
		LocationName   string  `json:"locationName"`
		MinimumSalary  float64 `json:"minimumSalary"`
		MaximumSalary  float64 `json:"maximumSalary"`
		JobDescription string  `json:"jobDescription"`
		JobURL         string  `json:"jobUrl"`
		Date           string  `json:"date"`
		IsPermanent    bool    `json:"isPermanent"`
		IsContract     bool    `json:"isContract"`
	} `json:"results"`
}

// Search queries the Reed job board. Reed authenticates with the API
// key as the basic-auth username and an empty password, and takes its
// search radius in miles.
func (c *ReedClient) Search(ctx context.Context, criteria domain.JobSearchCriteria, page int) ([]domain.JobListing, error) {
	if !c.Configured() {
		return nil, nil
	}

	take := criteria.MaxResults
	if take <= 0 {
		take = 20
	}
	if take > 100 {
		take = 100
	}

	params := url.Values{}
	params.Set("resultsToTake", strconv.Itoa(take))
	if criteria.Keywords != "" {
		params.Set("keywords", criteria.Keywords)
	}
	if criteria.Location != "" {
		params.Set("locationName", criteria.Location)
		distance := criteria.DistanceKM
		if distance <= 0 {
			distance = 16
		}
		miles := distance / 2
		if miles < 1 {
			miles = 1
		}
		params.Set("distancefromlocation", strconv.Itoa(miles))
	}
	if criteria.MinSalary > 0 {
		params.Set("minimumSalary", strconv.Itoa(criteria.MinSalary))
	}
	if criteria.MaxSalary > 0 {
		params.Set("maximumSalary", strconv.Itoa(criteria.MaxSalary))
	}
	switch criteria.ContractType {
	case "permanent":
		params.Set("permanent", "true")
	case "contract", "temp":
		params.Set("contract", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch reed jobs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch reed jobs: unexpected status %d", resp.StatusCode)
	}

	var body reedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode reed jobs: %w", err)
	}

	jobs := make([]domain.JobListing, 0, len(body.Results))
	for _, item := range body.Results {
		company := item.EmployerName
		if company == "" {
			company = "Unknown"
		}
		contract := ""
		if item.IsPermanent {
			contract = "permanent"
		} else if item.IsContract {
			contract = "contract"
		}
		posted := item.Date
		if len(posted) >= 10 {
			posted = posted[:10]
		}
		jobs = append(jobs, domain.JobListing{
			Title:        item.JobTitle,
			Company:      company,
			Location:     item.LocationName,
			SalaryMin:    item.MinimumSalary,
			SalaryMax:    item.MaximumSalary,
			Description:  truncate(item.JobDescription, 500),
			URL:          item.JobURL,
			Posted:       posted,
			ContractType: contract,
			Source:       domain.SourceReed,
		})
	}
	return jobs, nil
}
