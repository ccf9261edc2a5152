package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brickvale/homebuyer/internal/rates/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const boeFixture = `Date,IUDBEDR
29 Jan 2024,5.25
20 Mar 2025,4.75
07 Aug 2025,4.00
`

func TestLatestRate_ScansFromEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(boeFixture))
	}))
	defer srv.Close()

	c := NewBoEClient(srv.URL, zap.NewNop())
	rate, err := c.LatestRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4.00, rate)
}

func TestLatestRate_SkipsTrailingGarbage(t *testing.T) {
	body := boeFixture + "\nsome footer text\nanother, not-a-number\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewBoEClient(srv.URL, zap.NewNop())
	rate, err := c.LatestRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4.00, rate)
}

func TestLatestRate_NoParsableRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Date,IUDBEDR\n"))
	}))
	defer srv.Close()

	c := NewBoEClient(srv.URL, zap.NewNop())
	_, err := c.LatestRate(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoRate)
}

func TestLatestRate_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewBoEClient(srv.URL, zap.NewNop())
	_, err := c.LatestRate(context.Background())
	assert.Error(t, err)
}
