// Package client fetches the official Bank rate from the Bank of
// England statistical database (series IUDBEDR, CSV form).
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brickvale/homebuyer/internal/rates/domain"
	"go.uber.org/zap"
)

type BoEClient struct {
	http *http.Client
	url  string
	log  *zap.Logger
}

func NewBoEClient(url string, log *zap.Logger) *BoEClient {
	return &BoEClient{
		http: &http.Client{Timeout: 10 * time.Second},
		url:  url,
		log:  log.Named("rates.boe"),
	}
}

// LatestRate returns the most recent rate in the CSV body. Rows are
// "Date,Value"; the newest row is last, so the scan runs from the end
// and the first row with a parsable second column wins.
func (c *BoEClient) LatestRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch base rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch base rate: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read base rate body: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		parts := strings.Split(strings.TrimSpace(lines[i]), ",")
		if len(parts) < 2 {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		return rate, nil
	}
	return 0, domain.ErrNoRate
}
