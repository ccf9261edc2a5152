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

const reedFixture = `{
  "results": [
    {
      "jobTitle": "Conveyancing Solicitor",
      "employerName": "Surrey Legal",
      "locationName": "Guildford",
      "minimumSalary": 45000,
      "maximumSalary": 55000,
      "jobDescription": "Residential conveyancing caseload.",
      "jobUrl": "https://reed.example/jobs/9",
      "date": "2026-08-15",
      "isPermanent": true,
      "isContract": false
    },
    {
      "jobTitle": "Site Labourer",
      "employerName": "",
      "locationName": "Woking",
      "jobUrl": "https://reed.example/jobs/10",
      "date": "2026-08-20",
      "isPermanent": false,
      "isContract": true
    }
  ]
}`

func TestReedSearch_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "reed-key", user)
		assert.Empty(t, pass)

		q := r.URL.Query()
		assert.Equal(t, "solicitor", q.Get("keywords"))
		assert.Equal(t, "Guildford", q.Get("locationName"))
		// 16 km rounds down to 8 miles.
		assert.Equal(t, "8", q.Get("distancefromlocation"))
		assert.Equal(t, "true", q.Get("permanent"))
		w.Write([]byte(reedFixture))
	}))
	defer srv.Close()

	c := NewReedClient(srv.URL, "reed-key", zap.NewNop())
	jobs, err := c.Search(context.Background(), domain.JobSearchCriteria{
		Keywords:     "solicitor",
		Location:     "Guildford",
		ContractType: "permanent",
	}, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "Conveyancing Solicitor", first.Title)
	assert.Equal(t, "Surrey Legal", first.Company)
	assert.Equal(t, 45_000.0, first.SalaryMin)
	assert.Equal(t, "permanent", first.ContractType)
	assert.Equal(t, "2026-08-15", first.Posted)
	assert.Equal(t, domain.SourceReed, first.Source)

	second := jobs[1]
	assert.Equal(t, "Unknown", second.Company)
	assert.Equal(t, "contract", second.ContractType)
}

func TestReedSearch_DistanceFloor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("distancefromlocation"))
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c := NewReedClient(srv.URL, "reed-key", zap.NewNop())
	_, err := c.Search(context.Background(), domain.JobSearchCriteria{Location: "Guildford", DistanceKM: 1}, 1)
	require.NoError(t, err)
}

func TestReedSearch_Unconfigured(t *testing.T) {
	c := NewReedClient("https://reed.example", "", zap.NewNop())
	jobs, err := c.Search(context.Background(), domain.JobSearchCriteria{}, 1)
	require.NoError(t, err)
	assert.Nil(t, jobs)
	assert.False(t, c.Configured())
}

func TestReedSearch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewReedClient(srv.URL, "reed-key", zap.NewNop())
	_, err := c.Search(context.Background(), domain.JobSearchCriteria{}, 1)
	assert.Error(t, err)
}
