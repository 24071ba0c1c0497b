package citydata_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/city-recipes/internal/citydata"
)

const testKey = "test-key"

func insightsHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testKey, r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"coordinates": []map[string]any{
				{"latitude": 48.8566, "longitude": 2.3522},
				{"latitude": 1, "longitude": 1},
			},
			"population": 2148000,
			"knownFor": []map[string]any{
				{"id": "k1", "content": "Eiffel Tower"},
				{"id": "k2", "content": "Croissants"},
			},
		})
	}
}

func weatherHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testKey, r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"cityId": r.URL.Query().Get("cityId"),
				"predictions": []map[string]any{
					{"when": "2026-10-16", "min": 8.5, "max": 17},
					{"when": "2026-10-17", "min": 9, "max": 18.5},
					{"when": "2026-10-18", "min": 10, "max": 19},
				},
			},
		})
	}
}

// newUpstream serves both API calls from a single test server.
func newUpstream(t *testing.T, insights, weather http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cities/{cityId}/insights", insights)
	mux.HandleFunc("GET /weather-predictions", weather)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func statusHandler(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(code), code)
	}
}

func TestClient_Insights(t *testing.T) {
	srv := newUpstream(t, insightsHandler(t), weatherHandler(t))
	c := citydata.NewClient(srv.URL, testKey, time.Second)

	in, err := c.Insights(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, in)
	require.Len(t, in.Coordinates, 2)
	assert.Equal(t, 48.8566, in.Coordinates[0].Latitude)
	assert.Equal(t, 2148000, in.Population)
	require.Len(t, in.KnownFor, 2)
	assert.Equal(t, "Croissants", in.KnownFor[1].Content)
}

func TestClient_Insights_PathEscapesCityID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	c := citydata.NewClient(srv.URL+"/", testKey, time.Second)
	_, err := c.Insights(context.Background(), "new york")
	require.NoError(t, err)
	assert.Equal(t, "/cities/new%20york/insights", gotPath)
}

func TestClient_Insights_NonSuccessIsCityNotFound(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusBadRequest, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			srv := newUpstream(t, statusHandler(code), weatherHandler(t))
			c := citydata.NewClient(srv.URL, testKey, time.Second)

			_, err := c.Insights(context.Background(), "42")
			require.ErrorIs(t, err, citydata.ErrCityNotFound)
		})
	}
}

func TestClient_Insights_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := citydata.NewClient(url, testKey, time.Second)
	_, err := c.Insights(context.Background(), "42")
	require.Error(t, err)
	assert.NotErrorIs(t, err, citydata.ErrCityNotFound)
}

func TestClient_Insights_BadJSON(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not-json"))
	}, weatherHandler(t))
	c := citydata.NewClient(srv.URL, testKey, time.Second)

	_, err := c.Insights(context.Background(), "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
	assert.NotErrorIs(t, err, citydata.ErrCityNotFound)
}

func TestClient_WeatherPredictions(t *testing.T) {
	srv := newUpstream(t, insightsHandler(t), weatherHandler(t))
	c := citydata.NewClient(srv.URL, testKey, time.Second)

	preds, err := c.WeatherPredictions(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, 8.5, preds[0].Min)
	assert.Equal(t, 18.5, preds[1].Max)
}

func TestClient_WeatherPredictions_Empty(t *testing.T) {
	srv := newUpstream(t, insightsHandler(t), func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	c := citydata.NewClient(srv.URL, testKey, time.Second)

	preds, err := c.WeatherPredictions(context.Background(), "42")
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestClient_WeatherPredictions_NotFoundIsNoForecast(t *testing.T) {
	srv := newUpstream(t, insightsHandler(t), statusHandler(http.StatusNotFound))
	c := citydata.NewClient(srv.URL, testKey, time.Second)

	preds, err := c.WeatherPredictions(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, preds)
}

func TestClient_WeatherPredictions_ServerError(t *testing.T) {
	srv := newUpstream(t, insightsHandler(t), statusHandler(http.StatusInternalServerError))
	c := citydata.NewClient(srv.URL, testKey, time.Second)

	_, err := c.WeatherPredictions(context.Background(), "42")
	require.Error(t, err)

	var se *citydata.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := citydata.NewClient(srv.URL, testKey, 50*time.Millisecond)
	_, err := c.Insights(context.Background(), "42")
	require.Error(t, err)
	assert.NotErrorIs(t, err, citydata.ErrCityNotFound)
}

func TestClient_Ping(t *testing.T) {
	srv := newUpstream(t, insightsHandler(t), weatherHandler(t))
	c := citydata.NewClient(srv.URL, testKey, time.Second)

	// The root path answers 404, which still proves the API is reachable.
	require.NoError(t, c.Ping(context.Background()))
}

func TestClient_Ping_ServerError(t *testing.T) {
	srv := httptest.NewServer(statusHandler(http.StatusBadGateway))
	defer srv.Close()

	c := citydata.NewClient(srv.URL, testKey, time.Second)
	require.Error(t, c.Ping(context.Background()))
}
