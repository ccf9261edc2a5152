// Package client talks to the Land Registry Price Paid Data linked
// data API (no key required).
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brickvale/homebuyer/internal/landregistry/domain"
	"go.uber.org/zap"
)

type PPDClient struct {
	http *http.Client
	url  string
	log  *zap.Logger
}

func NewPPDClient(url string, log *zap.Logger) *PPDClient {
	return &PPDClient{
		http: &http.Client{Timeout: 15 * time.Second},
		url:  url,
		log:  log.Named("landregistry.ppd"),
	}
}

// ppdPropertyType tolerates both the plain-string and the linked-data
// object form of the propertyType field.
type ppdPropertyType struct {
	Label string
}

func (p *ppdPropertyType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		p.Label = s
		return nil
	}
	var obj struct {
		PrefLabel string `json:"prefLabel"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		p.Label = obj.PrefLabel
	}
	return nil
}

type ppdResponse struct {
	Result struct {
		Items []struct {
			PropertyAddress struct {
				SAON     string `json:"saon"`
				PAON     string `json:"paon"`
				Street   string `json:"street"`
				Town     string `json:"town"`
				Postcode string `json:"postcode"`
			} `json:"propertyAddress"`
			PricePaid       int             `json:"pricePaid"`
			TransactionDate string          `json:"transactionDate"`
			PropertyType    ppdPropertyType `json:"propertyType"`
			NewBuild        bool            `json:"newBuild"`
		} `json:"items"`
	} `json:"result"`
}

// Search queries the PPD transaction records, newest first.
func (c *PPDClient) Search(ctx context.Context, postcode, town string, maxResults int) ([]domain.SoldPrice, error) {
	params := url.Values{}
	params.Set("_pageSize", strconv.Itoa(maxResults))
	params.Set("_sort", "-transactionDate")
	if postcode != "" {
		params.Set("propertyAddress.postcode", strings.ToUpper(strings.TrimSpace(postcode)))
	}
	if town != "" {
		params.Set("propertyAddress.town", strings.ToUpper(strings.TrimSpace(town)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sold prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sold prices: unexpected status %d", resp.StatusCode)
	}

	var body ppdResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode sold prices: %w", err)
	}

	prices := make([]domain.SoldPrice, 0, len(body.Result.Items))
	for _, item := range body.Result.Items {
		addr := item.PropertyAddress
		parts := make([]string, 0, 5)
		for _, p := range []string{addr.SAON, addr.PAON, addr.Street, addr.Town, addr.Postcode} {
			if p != "" {
				parts = append(parts, p)
			}
		}

		date := item.TransactionDate
		if len(date) > 10 {
			date = date[:10]
		}

		prices = append(prices, domain.SoldPrice{
			Address:      strings.Join(parts, ", "),
			Price:        item.PricePaid,
			Date:         date,
			PropertyType: domain.TypeCodeFromLabel(item.PropertyType.Label),
			NewBuild:     item.NewBuild,
			Postcode:     addr.Postcode,
		})
	}
	return prices, nil
}
