// Package domain holds the job market feed types. Listings come from
// the Adzuna aggregator and the Reed job board, both key-gated, and
// feed the area employment summary.
package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/brickvale/homebuyer/pkg/money"
)

const (
	SourceAdzuna = "adzuna"
	SourceReed   = "reed"
)

// AdzunaCategories maps the short category labels offered to users to
// Adzuna's tag names.
var AdzunaCategories = map[string]string{
	"it":            "IT Jobs",
	"engineering":   "Engineering Jobs",
	"healthcare":    "Healthcare & Nursing Jobs",
	"teaching":      "Teaching Jobs",
	"accounting":    "Accounting & Finance Jobs",
	"sales":         "Sales Jobs",
	"admin":         "Admin Jobs",
	"legal":         "Legal Jobs",
	"construction":  "Trade & Construction Jobs",
	"retail":        "Retail Jobs",
	"hospitality":   "Hospitality & Catering Jobs",
	"logistics":     "Logistics & Warehouse Jobs",
	"manufacturing": "Manufacturing Jobs",
	"scientific":    "Scientific & QA Jobs",
	"social":        "Social work Jobs",
	"creative":      "Creative & Design Jobs",
	"hr":            "HR & Recruitment Jobs",
	"property":      "Property Jobs",
	"energy":        "Energy, Oil & Gas Jobs",
	"charity":       "Charity & Voluntary Jobs",
}

// JobListing is one vacancy. Zero salary bounds mean the posting did
// not state them.
type JobListing struct {
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Location     string  `json:"location"`
	SalaryMin    float64 `json:"salary_min,omitempty"`
	SalaryMax    float64 `json:"salary_max,omitempty"`
	Description  string  `json:"description,omitempty"`
	URL          string  `json:"url,omitempty"`
	Posted       string  `json:"posted,omitempty"`
	ContractType string  `json:"contract_type,omitempty"`
	Category     string  `json:"category,omitempty"`
	Source       string  `json:"source"`
}

func (j JobListing) SalaryDisplay() string {
	switch {
	case j.SalaryMin > 0 && j.SalaryMax > 0 && j.SalaryMin == j.SalaryMax:
		return money.FormatGBP(int(j.SalaryMin + 0.5))
	case j.SalaryMin > 0 && j.SalaryMax > 0:
		return fmt.Sprintf("%s - %s", money.FormatGBP(int(j.SalaryMin+0.5)), money.FormatGBP(int(j.SalaryMax+0.5)))
	case j.SalaryMin > 0:
		return "From " + money.FormatGBP(int(j.SalaryMin+0.5))
	case j.SalaryMax > 0:
		return "Up to " + money.FormatGBP(int(j.SalaryMax+0.5))
	}
	return "Not specified"
}

// SalaryMid is the midpoint when both bounds are present, otherwise
// whichever bound is set, otherwise zero.
func (j JobListing) SalaryMid() float64 {
	if j.SalaryMin > 0 && j.SalaryMax > 0 {
		return (j.SalaryMin + j.SalaryMax) / 2
	}
	if j.SalaryMin > 0 {
		return j.SalaryMin
	}
	return j.SalaryMax
}

func (j JobListing) Summary() string {
	ct := j.ContractType
	if ct == "" {
		ct = "N/A"
	}
	return fmt.Sprintf("%s @ %s\n  %s | %s | %s\n  %s",
		j.Title, j.Company, j.Location, j.SalaryDisplay(), ct, j.URL)
}

// JobSearchCriteria filters vacancies. Salary bounds only apply when
// the listing states the matching bound.
type JobSearchCriteria struct {
	Keywords     string
	Location     string
	DistanceKM   int
	MinSalary    int
	MaxSalary    int
	ContractType string
	Category     string
	MaxResults   int
}

func (c JobSearchCriteria) Matches(j JobListing) bool {
	if c.MinSalary > 0 && j.SalaryMax > 0 && j.SalaryMax < float64(c.MinSalary) {
		return false
	}
	if c.MaxSalary > 0 && j.SalaryMin > 0 && j.SalaryMin > float64(c.MaxSalary) {
		return false
	}
	if c.ContractType != "" {
		if !strings.Contains(strings.ToLower(j.ContractType), strings.ToLower(c.ContractType)) {
			return false
		}
	}
	return true
}

// SalaryStats summarizes the vacancies that state a salary.
type SalaryStats struct {
	CountWithSalary int `json:"count_with_salary"`
	Min             int `json:"min"`
	Max             int `json:"max"`
	Mean            int `json:"mean"`
	Median          int `json:"median"`
}

type CategoryStats struct {
	Count     int `json:"count"`
	AvgSalary int `json:"avg_salary,omitempty"`
}

type EmployerCount struct {
	Name     string `json:"name"`
	Openings int    `json:"openings"`
}

type SampleJob struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Salary  string `json:"salary"`
	Type    string `json:"type"`
	URL     string `json:"url,omitempty"`
}

// AreaStats is the job market summary for a location.
type AreaStats struct {
	Count             int                      `json:"count"`
	Location          string                   `json:"location"`
	Salary            *SalaryStats             `json:"salary,omitempty"`
	ByCategory        map[string]CategoryStats `json:"by_category,omitempty"`
	ByContract        map[string]int           `json:"by_contract,omitempty"`
	TopEmployers      []EmployerCount          `json:"top_employers,omitempty"`
	SourcesConfigured map[string]bool          `json:"sources_configured"`
	SampleJobs        []SampleJob              `json:"sample_jobs,omitempty"`
	Message           string                   `json:"message,omitempty"`
}

// SalaryHistory is the recent average-salary trend for an area from
// the Adzuna history endpoint.
type SalaryHistory struct {
	AvgSalary int       `json:"avg_salary"`
	Trend     []float64 `json:"trend"`
	Months    []string  `json:"months"`
}

// Service searches the configured job feeds.
type Service interface {
	// Search queries Adzuna then Reed, filters locally, dedupes by
	// (title, company) and caps at MaxResults. A failing portal
	// contributes nothing.
	Search(ctx context.Context, criteria JobSearchCriteria) ([]JobListing, error)

	// AreaStats summarizes the employment market for a location.
	AreaStats(ctx context.Context, location string) (*AreaStats, error)

	// SalaryHistory returns the last-six-month average salary trend,
	// or nil when Adzuna is unconfigured or has no data.
	SalaryHistory(ctx context.Context, location, category string) (*SalaryHistory, error)
}
