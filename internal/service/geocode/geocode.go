// Package geocode resolves coordinates to a human readable address for
// the attendance history. Lookups are best effort: any failure degrades
// to an empty address and never blocks a clock event.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

type Client struct {
	baseUrl string
	client  *http.Client
}

// NewClient points at a nominatim compatible reverse geocoder. An empty
// baseUrl disables lookups entirely.
func NewClient(baseUrl string) *Client {
	return &Client{
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseGeocode returns the display address of a coordinate or an
// empty string when the geocoder is unavailable.
func (c *Client) ReverseGeocode(ctx context.Context, latitude, longitude float64) string {
	if c.baseUrl == "" {
		return ""
	}

	url := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f", c.baseUrl, latitude, longitude)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}

	response, err := c.client.Do(request)
	if err != nil {
		log.Println("reverse geocode error:", err)
		return ""
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		log.Println("reverse geocode status:", response.StatusCode)
		return ""
	}

	var body reverseResponse
	if err = json.NewDecoder(response.Body).Decode(&body); err != nil {
		return ""
	}

	return body.DisplayName
}
