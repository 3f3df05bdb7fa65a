package domain

import (
	"encoding/json"
	"regexp"
	"strings"
)

type Attraction struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Transport   string   `json:"transport"`
	MRT         *string  `json:"mrt"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Images      []string `json:"images"`
}

// AttractionSummary is the denormalized slice of an attraction embedded
// in booking and order payloads.
type AttractionSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Image   string `json:"image"`
}

var imageURLPattern = regexp.MustCompile(`(?i)https?://[^\s,]+?\.(?:jpg|jpeg|png|gif)`)

// ParseImageField normalizes the stored image column into URL strings.
// Source data carries either a JSON array or a loosely delimited blob of
// URLs, so both branches stay: JSON first, regex extraction as fallback.
func ParseImageField(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err == nil {
			if urls == nil {
				return []string{}
			}
			return urls
		}
	}
	urls := imageURLPattern.FindAllString(raw, -1)
	if urls == nil {
		return []string{}
	}
	return urls
}

// FirstImage returns the first normalized image URL, or "".
func FirstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}
