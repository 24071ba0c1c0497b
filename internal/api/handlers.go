package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/neexbeast/city-recipes/internal/citydata"
	"github.com/neexbeast/city-recipes/internal/recipe"
)

// maxRecipeBodyBytes bounds the request body accepted on recipe creation.
const maxRecipeBodyBytes = 64 << 10

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	store   RecipeStore
	fetcher CityFetcher
	log     *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(store RecipeStore, fetcher CityFetcher, log *slog.Logger) *Handlers {
	return &Handlers{
		store:   store,
		fetcher: fetcher,
		log:     log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handlerFunc is a handler whose failures are translated by handle.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle is the single error boundary: returned errors become a status code
// and {"error": ...} body, and panics become a 500 with the same shape.
// Nothing is written once the handler has already sent its headers.
func (h *Handlers) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.log.Error("handler panicked",
					"req_id", middleware.GetReqID(r.Context()),
					"path", r.URL.Path,
					"status_sent", ww.Status(),
					"recover", rec,
				)
				if ww.Status() == 0 {
					writeError(ww, http.StatusInternalServerError, internalErrorMessage)
				}
			}
		}()

		err := fn(ww, r)
		if err == nil {
			return
		}

		status, message := response(err)
		if status == http.StatusInternalServerError {
			h.log.Error("request failed",
				"req_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"err", err,
			)
		}
		if ww.Status() != 0 {
			h.log.Warn("error after response started", "req_id", middleware.GetReqID(r.Context()), "err", err)
			return
		}
		writeError(ww, status, message)
	}
}

type cityInfoResponse struct {
	Coordinates        [2]float64          `json:"coordinates"`
	Population         int                 `json:"population"`
	KnownFor           []string            `json:"knownFor"`
	WeatherPredictions []citydata.Forecast `json:"weatherPredictions"`
	Recipes            []recipe.Recipe     `json:"recipes"`
}

// GetCityInfo handles GET /cities/{cityId}/infos.
func (h *Handlers) GetCityInfo(w http.ResponseWriter, r *http.Request) error {
	city := chi.URLParam(r, "cityId")

	snap, err := h.fetcher.Snapshot(r.Context(), city)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, cityInfoResponse{
		Coordinates:        snap.Coordinates,
		Population:         snap.Population,
		KnownFor:           snap.KnownFor,
		WeatherPredictions: snap.WeatherPredictions,
		Recipes:            h.store.List(city),
	})
	return nil
}

type createRecipeRequest struct {
	Content *string `json:"content"`
}

// CreateRecipe handles POST /cities/{cityId}/recipes.
func (h *Handlers) CreateRecipe(w http.ResponseWriter, r *http.Request) error {
	city := chi.URLParam(r, "cityId")

	if err := h.fetcher.CityExists(r.Context(), city); err != nil {
		return err
	}

	// An unreadable body or a non-string content both leave Content nil.
	var req createRecipeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecipeBodyBytes)).Decode(&req); err != nil {
		req.Content = nil
	}

	if err := recipe.ValidateContent(req.Content); err != nil {
		return err
	}

	created := h.store.Add(city, *req.Content)
	h.log.Info("recipe created", "city", city, "id", created.ID)

	writeJSON(w, http.StatusCreated, created)
	return nil
}

// DeleteRecipe handles DELETE /cities/{cityId}/recipes/{recipeId}.
func (h *Handlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) error {
	city := chi.URLParam(r, "cityId")

	if err := h.fetcher.CityExists(r.Context(), city); err != nil {
		return err
	}

	// Ids start at 1, so an unparsable id can never match a stored recipe and
	// is reported as not found after the no-recipes check.
	id, err := strconv.Atoi(chi.URLParam(r, "recipeId"))
	if err != nil {
		id = 0
	}

	if err := h.store.Delete(city, id); err != nil {
		return err
	}
	h.log.Info("recipe deleted", "city", city, "id", id)

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// HealthHandlerFunc returns an http.HandlerFunc that checks upstream reachability.
func HealthHandlerFunc(upstream Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok", "upstream": "ok"}

		if err := upstream.Ping(ctx); err != nil {
			log.Error("health check: upstream ping failed", "err", err)
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["upstream"] = "error"
		}

		writeJSON(w, status, body)
	}
}
