package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ppdFixture = `{
  "result": {
    "items": [
      {
        "propertyAddress": {
          "paon": "12",
          "street": "HIGH STREET",
          "town": "GUILDFORD",
          "postcode": "GU1 3AA"
        },
        "pricePaid": 425000,
        "transactionDate": "2025-11-03",
        "propertyType": {"prefLabel": "Semi-detached"},
        "newBuild": false
      },
      {
        "propertyAddress": {
          "saon": "FLAT 2",
          "paon": "8",
          "street": "CASTLE SQUARE",
          "town": "GUILDFORD",
          "postcode": "GU1 3UW"
        },
        "pricePaid": 310000,
        "transactionDate": "2025-10-21T00:00:00",
        "propertyType": "Flat/Maisonette",
        "newBuild": true
      }
    ]
  }
}`

func TestSearch_ParsesItems(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(ppdFixture))
	}))
	defer srv.Close()

	c := NewPPDClient(srv.URL, zap.NewNop())
	prices, err := c.Search(context.Background(), "gu1", "", 20)
	require.NoError(t, err)
	require.Len(t, prices, 2)

	assert.Equal(t, []string{"GU1"}, gotQuery["propertyAddress.postcode"])
	assert.Equal(t, []string{"20"}, gotQuery["_pageSize"])
	assert.Equal(t, []string{"-transactionDate"}, gotQuery["_sort"])

	first := prices[0]
	assert.Equal(t, "12, HIGH STREET, GUILDFORD, GU1 3AA", first.Address)
	assert.Equal(t, 425_000, first.Price)
	assert.Equal(t, "2025-11-03", first.Date)
	assert.Equal(t, "S", first.PropertyType)
	assert.False(t, first.NewBuild)
	assert.Equal(t, "GU1 3AA", first.Postcode)

	second := prices[1]
	assert.Equal(t, "FLAT 2, 8, CASTLE SQUARE, GUILDFORD, GU1 3UW", second.Address)
	assert.Equal(t, "2025-10-21", second.Date)
	assert.Equal(t, "F", second.PropertyType)
	assert.True(t, second.NewBuild)
}

func TestSearch_TownParam(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"result":{"items":[]}}`))
	}))
	defer srv.Close()

	c := NewPPDClient(srv.URL, zap.NewNop())
	prices, err := c.Search(context.Background(), "", "guildford", 10)
	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.Equal(t, []string{"GUILDFORD"}, gotQuery["propertyAddress.town"])
	assert.NotContains(t, gotQuery, "propertyAddress.postcode")
}

func TestSearch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewPPDClient(srv.URL, zap.NewNop())
	_, err := c.Search(context.Background(), "GU1", "", 20)
	assert.Error(t, err)
}
