package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/brickvale/homebuyer/internal/propertyfeeds/domain"
	"go.uber.org/zap"
)

// NestoriaClient talks to the keyless Nestoria aggregator API.
type NestoriaClient struct {
	http *http.Client
	base string
	log  *zap.Logger
}

func NewNestoriaClient(base string, log *zap.Logger) *NestoriaClient {
	return &NestoriaClient{
		http: &http.Client{Timeout: 15 * time.Second},
		base: base,
		log:  log.Named("propertyfeeds.nestoria"),
	}
}

type nestoriaResponse struct {
	Response struct {
		Listings []struct {
			Title                  string    `json:"title"`
			Price                  flexInt   `json:"price"`
			BedroomNumber          flexInt   `json:"bedroom_number"`
			BathroomNumber         flexInt   `json:"bathroom_number"`
			PropertyType           string    `json:"property_type"`
			Summary                string    `json:"summary"`
			ListerURL              string    `json:"lister_url"`
			ListingURL             string    `json:"listing_url"`
			ImgURL                 string    `json:"img_url"`
			DatasourceName         string    `json:"datasource_name"`
			UpdatedInDaysFormatted string    `json:"updated_in_days_formatted"`
			Latitude               flexFloat `json:"latitude"`
			Longitude              flexFloat `json:"longitude"`
		} `json:"listings"`
	} `json:"response"`
}

func (c *NestoriaClient) Search(ctx context.Context, criteria domain.SearchCriteria, page int) ([]domain.Listing, error) {
	listingType := "buy"
	if criteria.ListingStatus == "rent" {
		listingType = "rent"
	}
	pageSize := criteria.MaxResults
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}

	params := url.Values{}
	params.Set("action", "search_listings")
	params.Set("encoding", "json")
	params.Set("country", "uk")
	params.Set("listing_type", listingType)
	params.Set("page", strconv.Itoa(page))
	params.Set("number_of_results", strconv.Itoa(pageSize))
	params.Set("sort", "newest")

	if criteria.Location != "" {
		params.Set("place_name", criteria.Location)
	}
	if criteria.MinPrice > 0 {
		params.Set("price_min", strconv.Itoa(criteria.MinPrice))
	}
	if criteria.MaxPrice > 0 {
		params.Set("price_max", strconv.Itoa(criteria.MaxPrice))
	}
	if criteria.MinBedrooms > 0 {
		params.Set("bedroom_min", strconv.Itoa(criteria.MinBedrooms))
	}
	if criteria.MaxBedrooms > 0 {
		params.Set("bedroom_max", strconv.Itoa(criteria.MaxBedrooms))
	}
	if criteria.PropertyType != "" {
		params.Set("property_type", criteria.PropertyType)
	}
	if criteria.Keywords != "" {
		params.Set("keywords", criteria.Keywords)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch nestoria listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch nestoria listings: unexpected status %d", resp.StatusCode)
	}

	var body nestoriaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode nestoria listings: %w", err)
	}

	listings := make([]domain.Listing, 0, len(body.Response.Listings))
	for _, item := range body.Response.Listings {
		address := item.Title
		if address == "" {
			address = "Address not available"
		}
		u := item.ListerURL
		if u == "" {
			u = item.ListingURL
		}
		desc, _ := stripHTML(item.Summary)
		listings = append(listings, domain.Listing{
			Title:         item.Title,
			Price:         int(item.Price),
			Address:       address,
			Bedrooms:      int(item.BedroomNumber),
			Bathrooms:     int(item.BathroomNumber),
			PropertyType:  item.PropertyType,
			Description:   truncate(desc, 500),
			URL:           u,
			ImageURL:      item.ImgURL,
			ListingStatus: "for_sale",
			AgentName:     item.DatasourceName,
			ListedDate:    parseListedDate(item.UpdatedInDaysFormatted),
			Latitude:      float64(item.Latitude),
			Longitude:     float64(item.Longitude),
			Source:        domain.SourceNestoria,
		})
	}
	return listings, nil
}
