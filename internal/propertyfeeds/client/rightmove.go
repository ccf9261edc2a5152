// Package client holds the portal feed clients. Rightmove is consumed
// through its RSS form of a saved search; Zoopla and Nestoria through
// their JSON APIs.
package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/brickvale/homebuyer/internal/propertyfeeds/domain"
	"go.uber.org/zap"
)

const rssUserAgent = "Mozilla/5.0 (compatible; HomeBuyerTool/1.0)"

var (
	priceRe    = regexp.MustCompile(`£([\d,]+)`)
	bedroomsRe = regexp.MustCompile(`(?i)(\d+)\s*bed`)
)

// propertyTypeProbes is ordered; the first phrase found in the text
// wins, so "semi-detached" must sit before any bare "detached" probe
// would match it. The listing text is matched as-is.
var propertyTypeProbes = []string{
	"semi-detached", "detached", "terraced", "flat",
	"apartment", "bungalow", "cottage", "maisonette", "end of terrace",
}

type RightmoveClient struct {
	http *http.Client
	log  *zap.Logger
}

func NewRightmoveClient(log *zap.Logger) *RightmoveClient {
	return &RightmoveClient{
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log.Named("propertyfeeds.rightmove"),
	}
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

// Fetch pulls an RSS feed URL and parses each item into a listing.
// Rightmove puts the address in the item title and the price and
// bedroom count somewhere in the description text.
func (c *RightmoveClient) Fetch(ctx context.Context, rssURL string) ([]domain.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rssURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", rssUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rss: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rss: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read rss body: %w", err)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	listings := make([]domain.Listing, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		desc, imageURL := stripHTML(item.Description)
		combined := item.Title + " " + desc

		listings = append(listings, domain.Listing{
			Title:        item.Title,
			Price:        extractPrice(combined),
			URL:          item.Link,
			Address:      item.Title,
			Description:  desc,
			Bedrooms:     extractBedrooms(combined),
			ListedDate:   item.PubDate,
			ImageURL:     imageURL,
			PropertyType: detectPropertyType(combined),
			Source:       domain.SourceRightmove,
		})
	}
	return listings, nil
}

// stripHTML flattens a description fragment to text and lifts the
// first image source out of it.
func stripHTML(fragment string) (text, imageURL string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment), ""
	}
	if src, ok := doc.Find("img").First().Attr("src"); ok {
		imageURL = src
	}
	return strings.TrimSpace(doc.Text()), imageURL
}

func extractPrice(text string) int {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	price, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}
	return price
}

func extractBedrooms(text string) int {
	m := bedroomsRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	beds, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return beds
}

func detectPropertyType(text string) string {
	lower := strings.ToLower(text)
	for _, probe := range propertyTypeProbes {
		if strings.Contains(lower, probe) {
			return probe
		}
	}
	return ""
}
