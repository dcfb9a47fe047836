// Package maps is a small Google Maps Platform client covering the Distance
// Matrix (walking and driving travel times) and reverse Geocoding APIs.
package maps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Travel modes accepted by the Distance Matrix API.
const (
	ModeWalking = "walking"
	ModeDriving = "driving"
)

// ErrNoResult is returned when the API answers but has no usable result.
var ErrNoResult = eris.New("maps: no result")

// Client performs the Google Maps lookups used for listing annotation.
type Client interface {
	// WalkingTime returns the walking travel time between two coordinates.
	WalkingTime(ctx context.Context, lat, lon, destLat, destLon float64) (*TravelTime, error)

	// DrivingTime returns the driving travel time from a coordinate to an address.
	DrivingTime(ctx context.Context, lat, lon float64, destination string) (*TravelTime, error)

	// ReverseGeocode returns the formatted street address nearest a coordinate.
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// TravelTime is a single Distance Matrix element.
type TravelTime struct {
	Duration       time.Duration
	Text           string // human readable duration, e.g. "12 mins"
	DistanceMeters int
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Google Maps client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value int    `json:"value"`
				Text  string `json:"text"`
			} `json:"duration"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

func (c *httpClient) WalkingTime(ctx context.Context, lat, lon, destLat, destLon float64) (*TravelTime, error) {
	return c.travelTime(ctx, ModeWalking, latLng(lat, lon), latLng(destLat, destLon))
}

func (c *httpClient) DrivingTime(ctx context.Context, lat, lon float64, destination string) (*TravelTime, error) {
	if destination == "" {
		return nil, eris.New("maps: driving destination is empty")
	}
	return c.travelTime(ctx, ModeDriving, latLng(lat, lon), destination)
}

func (c *httpClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{"latlng": {latLng(lat, lon)}}

	var resp geocodeResponse
	if err := c.get(ctx, "/geocode/json", params, &resp); err != nil {
		return "", err
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return "", eris.Wrapf(ErrNoResult, "geocode status %s %s", resp.Status, resp.ErrorMessage)
	}
	return resp.Results[0].FormattedAddress, nil
}

func (c *httpClient) travelTime(ctx context.Context, mode, origin, destination string) (*TravelTime, error) {
	params := url.Values{
		"origins":      {origin},
		"destinations": {destination},
		"mode":         {mode},
	}

	var resp distanceMatrixResponse
	if err := c.get(ctx, "/distancematrix/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, eris.Errorf("maps: distance matrix status %s %s", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, eris.Wrap(ErrNoResult, "distance matrix returned no elements")
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return nil, eris.Wrapf(ErrNoResult, "distance matrix element status %s", el.Status)
	}

	return &TravelTime{
		Duration:       time.Duration(el.Duration.Value) * time.Second,
		Text:           el.Duration.Text,
		DistanceMeters: el.Distance.Value,
	}, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "maps: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "maps: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "maps: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("maps: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "maps: unmarshal response")
	}
	return nil
}

func latLng(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}
