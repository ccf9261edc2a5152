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

type ZooplaClient struct {
	http   *http.Client
	base   string
	apiKey string
	log    *zap.Logger
}

func NewZooplaClient(base, apiKey string, log *zap.Logger) *ZooplaClient {
	return &ZooplaClient{
		http:   &http.Client{Timeout: 15 * time.Second},
		base:   base,
		apiKey: apiKey,
		log:    log.Named("propertyfeeds.zoopla"),
	}
}

// Configured reports whether an API key is present.
func (c *ZooplaClient) Configured() bool { return c.apiKey != "" }

type zooplaResponse struct {
	Listing []struct {
		DisplayableAddress string    `json:"displayable_address"`
		Price              flexInt   `json:"price"`
		NumBedrooms        flexInt   `json:"num_bedrooms"`
		NumBathrooms       flexInt   `json:"num_bathrooms"`
		PropertyType       string    `json:"property_type"`
		Description        string    `json:"description"`
		DetailsURL         string    `json:"details_url"`
		ImageURL           string    `json:"image_url"`
		ListingStatus      string    `json:"listing_status"`
		AgentName          string    `json:"agent_name"`
		FirstPublishedDate string    `json:"first_published_date"`
		Latitude           flexFloat `json:"latitude"`
		Longitude          flexFloat `json:"longitude"`
	} `json:"listing"`
}

// Search queries the Zoopla listings API. Without an API key it
// returns no results and no error, so the merged search can treat the
// feed as absent.
func (c *ZooplaClient) Search(ctx context.Context, criteria domain.SearchCriteria, page int) ([]domain.Listing, error) {
	if !c.Configured() {
		return nil, nil
	}

	status := criteria.ListingStatus
	if status == "" {
		status = "sale"
	}
	radius := criteria.RadiusMiles
	if radius <= 0 {
		radius = 1.0
	}
	pageSize := criteria.MaxResults
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("area", criteria.Location)
	params.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	params.Set("listing_status", status)
	params.Set("page_number", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("order_by", "age")
	params.Set("ordering", "descending")

	if criteria.MinPrice > 0 {
		params.Set("minimum_price", strconv.Itoa(criteria.MinPrice))
	}
	if criteria.MaxPrice > 0 {
		params.Set("maximum_price", strconv.Itoa(criteria.MaxPrice))
	}
	if criteria.MinBedrooms > 0 {
		params.Set("minimum_beds", strconv.Itoa(criteria.MinBedrooms))
	}
	if criteria.MaxBedrooms > 0 {
		params.Set("maximum_beds", strconv.Itoa(criteria.MaxBedrooms))
	}
	if criteria.PropertyType != "" {
		params.Set("property_type", criteria.PropertyType)
	}
	if criteria.Keywords != "" {
		params.Set("keywords", criteria.Keywords)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/property_listings.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch zoopla listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch zoopla listings: unexpected status %d", resp.StatusCode)
	}

	var body zooplaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode zoopla listings: %w", err)
	}

	listings := make([]domain.Listing, 0, len(body.Listing))
	for _, item := range body.Listing {
		desc, _ := stripHTML(item.Description)
		listings = append(listings, domain.Listing{
			Title:         item.DisplayableAddress,
			Price:         int(item.Price),
			Address:       item.DisplayableAddress,
			Bedrooms:      int(item.NumBedrooms),
			Bathrooms:     int(item.NumBathrooms),
			PropertyType:  item.PropertyType,
			Description:   truncate(desc, 500),
			URL:           item.DetailsURL,
			ImageURL:      item.ImageURL,
			ListingStatus: item.ListingStatus,
			AgentName:     item.AgentName,
			ListedDate:    parseListedDate(item.FirstPublishedDate),
			Latitude:      float64(item.Latitude),
			Longitude:     float64(item.Longitude),
			Source:        domain.SourceZoopla,
		})
	}
	return listings, nil
}
