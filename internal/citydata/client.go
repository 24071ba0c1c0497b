package citydata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const apiKeyHeader = "X-Api-Key"

var (
	// ErrCityNotFound is returned when the upstream answers the insights call
	// with any non-success status.
	ErrCityNotFound = errors.New("city not found")
	// ErrMalformedInsights is returned when an insights payload has no coordinates.
	ErrMalformedInsights = errors.New("malformed city insights")
)

// StatusError is returned for upstream responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

// Client talks to the city data API. A zero timeout leaves upstream calls
// bounded only by the caller's context.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient constructs a Client for the API rooted at baseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// doGet performs an authenticated GET and decodes the JSON response into dst.
// endpoint labels the call in metrics.
func (c *Client) doGet(ctx context.Context, endpoint, rawURL string, dst any) error {
	start := time.Now()
	defer func() {
		upstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	upstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}

	return nil
}

// Insights fetches coordinates, population and "known for" facts for a city.
// Every non-success status is reported as ErrCityNotFound.
func (c *Client) Insights(ctx context.Context, cityID string) (*Insights, error) {
	endpoint := c.baseURL + "/cities/" + url.PathEscape(cityID) + "/insights"

	var raw Insights
	if err := c.doGet(ctx, "insights", endpoint, &raw); err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("city insights for %s: %w (upstream status %d)", cityID, ErrCityNotFound, se.StatusCode)
		}
		return nil, fmt.Errorf("city insights for %s: %w", cityID, err)
	}

	return &raw, nil
}

type weatherEntry struct {
	CityID      string       `json:"cityId"`
	Predictions []Prediction `json:"predictions"`
}

// WeatherPredictions fetches the forecast list for a city. An empty upstream
// result or a 404 means "no forecast" and yields nil, nil.
func (c *Client) WeatherPredictions(ctx context.Context, cityID string) ([]Prediction, error) {
	endpoint := c.baseURL + "/weather-predictions?cityId=" + url.QueryEscape(cityID)

	var raw []weatherEntry
	if err := c.doGet(ctx, "weather", endpoint, &raw); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("weather predictions for %s: %w", cityID, err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	return raw[0].Predictions, nil
}

// Ping reports whether the upstream API answers at all. Any response below
// 500 counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	err := c.doGet(ctx, "ping", c.baseURL+"/", nil)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError {
		return nil
	}
	return err
}
