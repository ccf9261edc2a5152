package client

import (
	"strconv"
	"strings"
	"time"
)

// flexInt tolerates JSON numbers, numeric strings and nulls; anything
// unparsable reads as zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(int(v))
	return nil
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

var listedDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2006-01-02",
}

// parseListedDate normalizes the assorted feed date formats to
// YYYY-MM-DD, passing unrecognized values through truncated.
func parseListedDate(s string) string {
	if s == "" {
		return ""
	}
	t := s
	if len(t) > 19 {
		t = t[:19]
	}
	for _, layout := range listedDateLayouts {
		if ts, err := time.Parse(layout, t); err == nil {
			return ts.Format("2006-01-02")
		}
	}
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
