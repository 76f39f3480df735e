package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dialwave/radiodex/api"
	"github.com/dialwave/radiodex/internal/cache"
	"github.com/dialwave/radiodex/internal/config"
	"github.com/dialwave/radiodex/internal/models"
	"github.com/dialwave/radiodex/internal/service"
	"github.com/dialwave/radiodex/internal/store"
)

// StationSource fetches stations from the upstream directory. Failures are
// reported as empty result sets, never as errors.
type StationSource interface {
	StationsByTag(ctx context.Context, tag string, limit int) []models.Station
	StationsByName(ctx context.Context, query string, limit int) []models.Station
}

// Server holds dependencies for the HTTP API.
type Server struct {
	store    store.Store
	stations StationSource
	cfg      *config.Config
	rds      *cache.Redis // nil when REDIS_URL is not set
	mux      *http.ServeMux
}

// New creates a Server and registers routes.
// rds may be nil if caching is not configured.
func New(s store.Store, stations StationSource, cfg *config.Config, rds *cache.Redis) *Server {
	srv := &Server{store: s, stations: stations, cfg: cfg, rds: rds, mux: http.NewServeMux()}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/{$}", s.handleRoot)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Stations (live from the upstream directory)
	s.mux.HandleFunc("GET /api/stations", s.handleAllStations)
	s.mux.HandleFunc("GET /api/stations/{genre}", s.handleStationsByGenre)
	s.mux.HandleFunc("GET /api/search/{query}", s.handleSearchStations)

	// Favorites (persisted)
	s.mux.HandleFunc("POST /api/favorites", s.handleAddFavorite)
	s.mux.HandleFunc("GET /api/favorites", s.handleListFavorites)
	s.mux.HandleFunc("DELETE /api/favorites/{stationuuid}", s.handleDeleteFavorite)

	// Cache administration
	s.mux.HandleFunc("POST /api/cache/warm", s.handleWarmCache)

	// Docs
	s.mux.HandleFunc("GET /api/docs", handleSwaggerUI)
	s.mux.HandleFunc("GET /api/docs/openapi.yaml", handleOpenAPISpec)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured port.
// It blocks until the server is shut down or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := ":" + s.cfg.ServerPort
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      withCORS(withLogging(s)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ListenAndServe: %w", err)
	}
	return nil
}

// --- info handlers ---

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "RadioDex API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- station handlers ---

func (s *Server) handleAllStations(w http.ResponseWriter, r *http.Request) {
	stations := s.cachedStations(r.Context(), cache.KeyAggregate, cache.TTLAggregate, func(ctx context.Context) []models.Station {
		return service.Aggregate(ctx, s.stations)
	})
	writeStationList(w, stations)
}

func (s *Server) handleStationsByGenre(w http.ResponseWriter, r *http.Request) {
	genre := r.PathValue("genre")
	stations := s.cachedStations(r.Context(), cache.GenreKey(genre), cache.TTLGenre, func(ctx context.Context) []models.Station {
		return s.stations.StationsByTag(ctx, genre, models.GenreFetchLimit)
	})
	writeStationList(w, stations)
}

func (s *Server) handleSearchStations(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	stations := s.cachedStations(r.Context(), cache.SearchKey(query), cache.TTLSearch, func(ctx context.Context) []models.Station {
		return s.stations.StationsByName(ctx, query, models.SearchLimit)
	})
	writeStationList(w, stations)
}

// cachedStations serves a station list from Redis when available, falling
// through to compute and caching the result. With no Redis configured it is
// a plain passthrough. Empty results are not cached so a transient upstream
// outage does not pin an empty list for a full TTL.
func (s *Server) cachedStations(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) []models.Station) []models.Station {
	if s.rds == nil {
		return compute(ctx)
	}
	if v, err := cache.Get[[]models.Station](ctx, s.rds, key); err == nil {
		return v
	}
	stations := compute(ctx)
	if len(stations) > 0 {
		if err := cache.Set(ctx, s.rds, key, stations, ttl); err != nil {
			log.Printf("cache: set %s: %v", key, err)
		}
	}
	return stations
}

func writeStationList(w http.ResponseWriter, stations []models.Station) {
	if stations == nil {
		stations = []models.Station{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stations": stations,
		"count":    len(stations),
	})
}

// --- favorite handlers ---

type addFavoriteRequest struct {
	StationUUID string `json:"stationuuid"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Country     string `json:"country"`
	Tags        string `json:"tags"`
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if req.StationUUID == "" || req.Name == "" || req.URL == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("stationuuid, name and url are required"))
		return
	}

	existing, err := s.store.FindFavorite(r.Context(), req.StationUUID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  "Station already in favorites",
			"favorite": existing,
		})
		return
	case !errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	fav := models.NewFavoriteStation(req.StationUUID, req.Name, req.URL, req.Country, req.Tags)
	if err := s.store.InsertFavorite(r.Context(), fav); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent add for the same station;
			// first write wins, so return the stored record.
			if existing, ferr := s.store.FindFavorite(r.Context(), req.StationUUID); ferr == nil {
				writeJSON(w, http.StatusOK, map[string]any{
					"message":  "Station already in favorites",
					"favorite": existing,
				})
				return
			}
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Station added to favorites",
		"favorite": fav,
	})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.store.ListFavorites(r.Context(), models.FavoritesListMax)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if favs == nil {
		favs = []models.FavoriteStation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"favorites": favs,
		"count":     len(favs),
	})
}

func (s *Server) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	stationUUID := r.PathValue("stationuuid")

	n, err := s.store.DeleteFavorite(r.Context(), stationUUID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if n == 0 {
		writeErr(w, http.StatusNotFound, fmt.Errorf("station not found in favorites"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Station removed from favorites"})
}

// --- cache handlers ---

// handleWarmCache enqueues warm jobs for every genre plus the aggregate.
// The background worker in cmd/radiodex drains the queue.
func (s *Server) handleWarmCache(w http.ResponseWriter, r *http.Request) {
	if s.rds == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("caching is not configured (REDIS_URL not set)"))
		return
	}

	jobs := make([]cache.WarmJob, 0, len(models.Genres)+1)
	for _, genre := range models.Genres {
		jobs = append(jobs, cache.WarmJob{Genre: genre})
	}
	jobs = append(jobs, cache.WarmJob{Aggregate: true})

	for _, job := range jobs {
		if err := cache.Enqueue(r.Context(), s.rds, cache.DefaultQueue, job); err != nil {
			writeErr(w, http.StatusInternalServerError, fmt.Errorf("enqueue warm job: %w", err))
			return
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": len(jobs)})
}

// --- middleware ---

// withCORS adds CORS headers to every response and handles preflight OPTIONS requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// withLogging wraps a handler and logs each request with method, path, status, and duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		statusCode := sw.status

		// Color the status code for terminal readability.
		statusColor := colorForStatus(statusCode)
		methodColor := colorForMethod(r.Method)

		log.Printf("%s%-7s\x1b[0m %s%3d\x1b[0m %8s  %s",
			methodColor, r.Method,
			statusColor, statusCode,
			formatDuration(duration),
			r.URL.Path,
		)
	})
}

func colorForStatus(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "\x1b[32m" // green
	case code >= 300 && code < 400:
		return "\x1b[36m" // cyan
	case code >= 400 && code < 500:
		return "\x1b[33m" // yellow
	default:
		return "\x1b[31m" // red
	}
}

func colorForMethod(method string) string {
	switch method {
	case http.MethodGet:
		return "\x1b[36m" // cyan
	case http.MethodPost:
		return "\x1b[32m" // green
	case http.MethodPatch, http.MethodPut:
		return "\x1b[33m" // yellow
	case http.MethodDelete:
		return "\x1b[31m" // red
	default:
		return "\x1b[37m" // white
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// --- helpers ---

// APIError is the standard error envelope for all error responses.
type APIError struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: %v", err)
	}
}

// writeErr writes the error envelope. Server-side errors are logged with
// their cause but the response carries only the generic status text, so
// internal details never reach the client.
func writeErr(w http.ResponseWriter, status int, err error) {
	out := APIError{Status: status, Error: http.StatusText(status)}
	if status >= 500 {
		log.Printf("ERROR %d: %v", status, err)
	} else {
		out.Detail = err.Error()
	}
	writeJSON(w, status, out)
}

// --- docs handlers ---

func handleOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.OpenAPISpec)
}

func handleSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, swaggerUIHTML)
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>RadioDex API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>html{box-sizing:border-box;overflow-y:scroll}*,*:before,*:after{box-sizing:inherit}body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/api/docs/openapi.yaml",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`
