// Package api is the HTTP read surface over the in-memory collection.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/library"
)

// Error names reported in the response envelope
const (
	ErrorInvalidParameter = "INVALID_PARAMETER_ERROR"
	ErrorServerNotReady   = "SERVER_NOT_READY_ERROR"
	ErrorReloadFailed     = "RELOAD_FAILED_ERROR"
	ErrorServer           = "SERVER_ERROR"
)

// Heartbeat bodies
const (
	heartbeatOK       = "OKOKOK"
	heartbeatNotReady = "NONONO"
)

// Library is the collection the API serves. *library.Service implements it.
type Library interface {
	Ready() bool
	Stats() (library.Stats, error)
	GetAlbums(p library.Params) ([]domain.Album, error)
	GetArtists(p library.Params) ([]domain.Artist, error)
	GetGenres(p library.Params) ([]domain.Genre, error)
	GetSongs(p library.Params) ([]domain.Track, error)
	Reload(ctx context.Context) (library.Stats, error)
}

// Envelope wraps every JSON response
type Envelope struct {
	IsError     bool   `json:"is_error"`
	ErrorName   string `json:"error_name"`
	ErrorMsg    string `json:"error_msg"`
	ResultCount int    `json:"result_count"`
	Results     any    `json:"results"`
}

// StatsResponse describes the live generation
type StatsResponse struct {
	Tracks     int    `json:"tracks"`
	Albums     int    `json:"albums"`
	Artists    int    `json:"artists"`
	Genres     int    `json:"genres"`
	TrieNodes  int    `json:"trie_nodes"`
	LoadedAt   string `json:"loaded_at"`
	DurationMs int64  `json:"duration_ms"`
}

// HTTP serves the collection endpoints
type HTTP struct {
	lib     Library
	rescan  func(ctx context.Context) (library.Stats, error)
	started time.Time
	logger  *slog.Logger
}

// NewHTTP creates the handler set. rescan may be nil, in which case
// POST /rescan is not registered.
func NewHTTP(lib Library, rescan func(ctx context.Context) (library.Stats, error), logger *slog.Logger) *HTTP {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTP{lib: lib, rescan: rescan, started: time.Now(), logger: logger}
}

// Handler returns the routed endpoints
func (ht *HTTP) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /albums", list(ht, ht.lib.GetAlbums))
	mux.HandleFunc("GET /artists", list(ht, ht.lib.GetArtists))
	mux.HandleFunc("GET /genres", list(ht, ht.lib.GetGenres))
	mux.HandleFunc("GET /songs", list(ht, ht.lib.GetSongs))
	mux.HandleFunc("GET /heartbeat", ht.Heartbeat)
	mux.HandleFunc("GET /uptime", ht.Uptime)
	mux.HandleFunc("GET /stats", ht.Stats)
	mux.HandleFunc("POST /reload", ht.refresh(ht.lib.Reload))
	if ht.rescan != nil {
		mux.HandleFunc("POST /rescan", ht.refresh(ht.rescan))
	}
	return mux
}

// list adapts a Params-driven query into a handler
func list[T any](ht *HTTP, query func(library.Params) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if !ht.lib.Ready() {
			ht.writeError(w, domain.ErrNotReady)
			return
		}

		params, err := library.ParseParams(r.URL.Query())
		if err != nil {
			ht.writeError(w, err)
			return
		}

		results, err := query(params)
		if err != nil {
			ht.writeError(w, err)
			return
		}

		ht.writeJSON(w, http.StatusOK, Envelope{ResultCount: len(results), Results: results})
		ht.logger.Debug("served request",
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"results", len(results),
			"duration", time.Since(start),
		)
	}
}

// Heartbeat reports readiness for load balancers
func (ht *HTTP) Heartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !ht.lib.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(heartbeatNotReady))
		return
	}
	w.Write([]byte(heartbeatOK))
}

// Uptime reports whole seconds since the handler was created
func (ht *HTTP) Uptime(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(strconv.Itoa(int(time.Since(ht.started).Seconds()))))
}

// Stats reports the size of the live generation
func (ht *HTTP) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := ht.lib.Stats()
	if err != nil {
		ht.writeError(w, err)
		return
	}
	ht.writeJSON(w, http.StatusOK, Envelope{ResultCount: 1, Results: toStatsResponse(stats)})
}

func (ht *HTTP) refresh(run func(ctx context.Context) (library.Stats, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := run(r.Context())
		if err != nil {
			ht.writeError(w, err)
			return
		}
		ht.writeJSON(w, http.StatusOK, Envelope{ResultCount: 1, Results: toStatsResponse(stats)})
	}
}

func toStatsResponse(s library.Stats) StatsResponse {
	return StatsResponse{
		Tracks:     s.Tracks,
		Albums:     s.Albums,
		Artists:    s.Artists,
		Genres:     s.Genres,
		TrieNodes:  s.TrieNodes,
		LoadedAt:   s.LoadedAt.UTC().Format(time.RFC3339),
		DurationMs: s.Duration.Milliseconds(),
	}
}

// === Response writers ===

func (ht *HTTP) writeError(w http.ResponseWriter, err error) {
	status, name := classify(err)
	if status == http.StatusInternalServerError {
		ht.logger.Error("request failed", "error", err)
	}
	ht.writeJSON(w, status, Envelope{
		IsError:   true,
		ErrorName: name,
		ErrorMsg:  err.Error(),
		Results:   []any{},
	})
}

// classify maps domain errors to an HTTP status and error name
func classify(err error) (int, string) {
	switch {
	case domain.IsInvalidParameter(err):
		return http.StatusBadRequest, ErrorInvalidParameter
	case errors.Is(err, domain.ErrNotReady):
		return http.StatusServiceUnavailable, ErrorServerNotReady
	case errors.Is(err, domain.ErrReloadFailed):
		return http.StatusInternalServerError, ErrorReloadFailed
	default:
		return http.StatusInternalServerError, ErrorServer
	}
}

func (ht *HTTP) writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ht.logger.Warn("failed to write response", "error", err)
	}
}
