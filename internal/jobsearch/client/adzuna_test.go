package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brickvale/homebuyer/internal/jobsearch/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adzunaFixture = `{
  "results": [
    {
      "title": "Senior Go Developer",
      "company": {"display_name": "Fintech Ltd"},
      "location": {"display_name": "Guildford, Surrey"},
      "salary_min": 65000,
      "salary_max": 80000,
      "description": "Build payment services in Go.",
      "redirect_url": "https://adzuna.example/job/1",
      "created": "2026-08-01T09:30:00Z",
      "contract_type": "permanent",
      "category": {"label": "IT Jobs"}
    },
    {
      "title": "Warehouse Operative",
      "company": {},
      "location": {"display_name": "Guildford"},
      "description": "Night shifts.",
      "redirect_url": "https://adzuna.example/job/2",
      "created": "2026-07-28T00:00:00Z",
      "category": {"label": "Logistics & Warehouse Jobs"}
    }
  ]
}`

func TestAdzunaSearch_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "id", q.Get("app_id"))
		assert.Equal(t, "key", q.Get("app_key"))
		assert.Equal(t, "go developer", q.Get("what"))
		assert.Equal(t, "Guildford", q.Get("where"))
		assert.Equal(t, "16", q.Get("distance"))
		assert.Equal(t, "permanent", q.Get("contract_type"))
		assert.Equal(t, "IT Jobs", q.Get("category"))
		w.Write([]byte(adzunaFixture))
	}))
	defer srv.Close()

	c := NewAdzunaClient(srv.URL, "id", "key", zap.NewNop())
	jobs, err := c.Search(context.Background(), domain.JobSearchCriteria{
		Keywords:     "go developer",
		Location:     "Guildford",
		ContractType: "permanent",
		Category:     "it",
	}, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "Senior Go Developer", first.Title)
	assert.Equal(t, "Fintech Ltd", first.Company)
	assert.Equal(t, "Guildford, Surrey", first.Location)
	assert.Equal(t, 65_000.0, first.SalaryMin)
	assert.Equal(t, 80_000.0, first.SalaryMax)
	assert.Equal(t, "2026-08-01", first.Posted)
	assert.Equal(t, "permanent", first.ContractType)
	assert.Equal(t, "IT Jobs", first.Category)
	assert.Equal(t, domain.SourceAdzuna, first.Source)

	second := jobs[1]
	assert.Equal(t, "Unknown", second.Company)
	assert.Zero(t, second.SalaryMin)
	assert.Empty(t, second.ContractType)
}

func TestAdzunaSearch_TempMapsToContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "contract", r.URL.Query().Get("contract_type"))
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c := NewAdzunaClient(srv.URL, "id", "key", zap.NewNop())
	jobs, err := c.Search(context.Background(), domain.JobSearchCriteria{ContractType: "temp"}, 1)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestAdzunaSearch_Unconfigured(t *testing.T) {
	c := NewAdzunaClient("https://adzuna.example", "", "", zap.NewNop())
	jobs, err := c.Search(context.Background(), domain.JobSearchCriteria{Keywords: "go"}, 1)
	require.NoError(t, err)
	assert.Nil(t, jobs)
	assert.False(t, c.Configured())
}

func TestAdzunaSearch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewAdzunaClient(srv.URL, "id", "key", zap.NewNop())
	_, err := c.Search(context.Background(), domain.JobSearchCriteria{}, 1)
	assert.Error(t, err)
}

func TestAdzunaSalaryHistory_LastSixMonths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "UK", q.Get("location0"))
		assert.Equal(t, "Guildford", q.Get("location1"))
		w.Write([]byte(`{"month": {
			"2026-01": 50000, "2026-02": 51000, "2026-03": 52000, "2026-04": 53000,
			"2026-05": 54000, "2026-06": 55000, "2026-07": 56000, "2026-08": 57000
		}}`))
	}))
	defer srv.Close()

	c := NewAdzunaClient(srv.URL, "id", "key", zap.NewNop())
	history, err := c.SalaryHistory(context.Background(), "Guildford", "")
	require.NoError(t, err)
	require.NotNil(t, history)

	assert.Equal(t, []string{"2026-03", "2026-04", "2026-05", "2026-06", "2026-07", "2026-08"}, history.Months)
	assert.Equal(t, []float64{52000, 53000, 54000, 55000, 56000, 57000}, history.Trend)
	assert.Equal(t, 54_500, history.AvgSalary)
}

func TestAdzunaSalaryHistory_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"month": {}}`))
	}))
	defer srv.Close()

	c := NewAdzunaClient(srv.URL, "id", "key", zap.NewNop())
	history, err := c.SalaryHistory(context.Background(), "Guildford", "")
	require.NoError(t, err)
	assert.Nil(t, history)
}
