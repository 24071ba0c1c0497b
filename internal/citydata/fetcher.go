package citydata

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// insightsFetcher is the interface satisfied by Client for city insights.
type insightsFetcher interface {
	Insights(ctx context.Context, cityID string) (*Insights, error)
}

// weatherFetcher is the interface satisfied by Client for forecasts.
type weatherFetcher interface {
	WeatherPredictions(ctx context.Context, cityID string) ([]Prediction, error)
}

// Fetcher composes insights and weather into city snapshots.
type Fetcher struct {
	insights insightsFetcher
	weather  weatherFetcher
}

// NewFetcher constructs a Fetcher backed by a single API client.
func NewFetcher(c *Client) *Fetcher {
	return &Fetcher{insights: c, weather: c}
}

// NewFetcherWithClients constructs a Fetcher with injectable clients (used in tests).
func NewFetcherWithClients(i insightsFetcher, w weatherFetcher) *Fetcher {
	return &Fetcher{insights: i, weather: w}
}

// CityExists returns nil when the upstream knows the city, an error wrapping
// ErrCityNotFound when it does not, and any other error unchanged.
func (f *Fetcher) CityExists(ctx context.Context, cityID string) error {
	_, err := f.insights.Insights(ctx, cityID)
	return err
}

// Snapshot fetches insights and weather in parallel and builds the city view.
// An insights failure cancels the weather call and is returned as is, so an
// unknown city is always reported as ErrCityNotFound. A weather failure is
// logged and leaves the forecast at its zero defaults.
func (f *Fetcher) Snapshot(ctx context.Context, cityID string) (*Snapshot, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var (
		insights    *Insights
		insightsErr error
		predictions []Prediction
		weatherErr  error
	)

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("insights fetch panicked", "recover", r)
				err = fmt.Errorf("insights fetch panicked: %v", r)
			}
		}()
		insights, insightsErr = f.insights.Insights(gCtx, cityID)
		return insightsErr
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("weather fetch panicked", "recover", r)
				err = fmt.Errorf("weather fetch panicked: %v", r)
			}
		}()
		predictions, weatherErr = f.weather.WeatherPredictions(gCtx, cityID)
		return nil
	})

	err := g.Wait()
	if insightsErr != nil {
		return nil, insightsErr
	}
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot for %s: %w", cityID, err)
	}

	if weatherErr != nil {
		slog.Warn("weather fetch failed, using empty forecast", "city", cityID, "err", weatherErr)
		predictions = nil
	}

	return buildSnapshot(cityID, insights, predictions)
}

func buildSnapshot(cityID string, in *Insights, predictions []Prediction) (*Snapshot, error) {
	if in == nil || len(in.Coordinates) == 0 {
		return nil, fmt.Errorf("building snapshot for %s: %w", cityID, ErrMalformedInsights)
	}

	knownFor := make([]string, 0, len(in.KnownFor))
	for _, fact := range in.KnownFor {
		knownFor = append(knownFor, fact.Content)
	}

	return &Snapshot{
		Coordinates: [2]float64{in.Coordinates[0].Latitude, in.Coordinates[0].Longitude},
		Population:  in.Population,
		KnownFor:    knownFor,
		WeatherPredictions: []Forecast{
			forecastAt(predictions, 0, Today),
			forecastAt(predictions, 1, Tomorrow),
		},
	}, nil
}

// forecastAt labels the i-th prediction, defaulting to zeros when it is missing.
func forecastAt(predictions []Prediction, i int, when string) Forecast {
	fc := Forecast{When: when}
	if i < len(predictions) {
		fc.Min = predictions[i].Min
		fc.Max = predictions[i].Max
	}
	return fc
}
