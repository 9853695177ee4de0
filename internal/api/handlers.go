// Package api is the HTTP transport over the ingest pipeline: route
// definitions, status mapping, and nothing else.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linkedingest/linkedingest/internal/ingest"
	"github.com/linkedingest/linkedingest/internal/storage"
	"github.com/linkedingest/linkedingest/internal/transform"
)

const unavailableDetail = "profile service unavailable: upstream session is not initialized, check LINKEDIN_AGENT_USERNAME and LINKEDIN_AGENT_PASSWORD"

// IngestService is the coordinator surface the transport consumes.
type IngestService interface {
	Ingest(ctx context.Context, profileID string) (*transform.ProfileDocument, error)
	QueueStatus() ingest.QueueStatus
}

// HistoryStore lists recent audit journal rows.
type HistoryStore interface {
	Recent(limit int) ([]storage.IngestRecord, error)
}

// Deps holds the handler dependencies. Ingest is nil when the upstream
// session failed to initialize; the service then runs degraded and answers
// 503 on everything but the index.
type Deps struct {
	Ingest  IngestService
	History HistoryStore // optional; omits /api/history when nil
}

// NewHandler builds the chi router for the service API.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/", handleIndex)
	r.Get("/api/health", handleHealth(deps))
	r.Get("/api/profile/{profileID}", handleProfile(deps))
	r.Get("/api/queue", handleQueue(deps))
	r.Get("/api/history", handleHistory(deps))

	return r
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "linkedingest API",
		"endpoints": map[string]string{
			"profile": "/api/profile/{profile_id}",
			"health":  "/api/health",
			"queue":   "/api/queue",
			"history": "/api/history",
		},
	})
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Ingest == nil {
			httpError(w, http.StatusServiceUnavailable, unavailableDetail)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Ingest == nil {
			httpError(w, http.StatusServiceUnavailable, unavailableDetail)
			return
		}
		profileID := chi.URLParam(r, "profileID")

		doc, err := deps.Ingest.Ingest(r.Context(), profileID)
		if err != nil {
			var fetchErr *ingest.FetchError
			var parseErr *transform.ParseError
			switch {
			case errors.As(err, &fetchErr):
				httpError(w, http.StatusBadRequest, "failed to fetch profile")
			case errors.As(err, &parseErr):
				httpError(w, http.StatusBadGateway, "failed to parse profile payload: %v", parseErr.Cause)
			default:
				httpError(w, http.StatusInternalServerError, "%v", err)
			}
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleQueue(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Ingest == nil {
			httpError(w, http.StatusServiceUnavailable, unavailableDetail)
			return
		}
		writeJSON(w, http.StatusOK, deps.Ingest.QueueStatus())
	}
}

func handleHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.History == nil {
			httpError(w, http.StatusNotFound, "audit history is not enabled")
			return
		}
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				httpError(w, http.StatusBadRequest, "invalid limit %q", v)
				return
			}
			limit = n
		}
		records, err := deps.History.Recent(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "listing history: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ingests": records})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]string{
		"detail": fmt.Sprintf(format, args...),
	})
}
