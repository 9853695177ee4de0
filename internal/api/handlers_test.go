package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linkedingest/linkedingest/internal/ingest"
	"github.com/linkedingest/linkedingest/internal/storage"
	"github.com/linkedingest/linkedingest/internal/transform"
)

type mockIngest struct {
	ingestFn func(ctx context.Context, profileID string) (*transform.ProfileDocument, error)
	status   ingest.QueueStatus
}

func (m *mockIngest) Ingest(ctx context.Context, profileID string) (*transform.ProfileDocument, error) {
	return m.ingestFn(ctx, profileID)
}

func (m *mockIngest) QueueStatus() ingest.QueueStatus { return m.status }

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestProfileSuccess(t *testing.T) {
	svc := &mockIngest{
		ingestFn: func(ctx context.Context, profileID string) (*transform.ProfileDocument, error) {
			return &transform.ProfileDocument{FullName: "Jane Doe", Summary: "PROFILE OF: Jane Doe"}, nil
		},
	}
	handler := NewHandler(Deps{Ingest: svc})

	rec := doRequest(t, handler, http.MethodGet, "/api/profile/jdoe")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var doc transform.ProfileDocument
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if doc.FullName != "Jane Doe" {
		t.Errorf("FullName = %q", doc.FullName)
	}
}

func TestProfileErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"fetch failure", &ingest.FetchError{ProfileID: "jdoe", Cause: errors.New("down")}, http.StatusBadRequest},
		{"parse failure", &transform.ParseError{Cause: errors.New("schema drift")}, http.StatusBadGateway},
		{"unexpected failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockIngest{
				ingestFn: func(ctx context.Context, profileID string) (*transform.ProfileDocument, error) {
					return nil, tt.err
				},
			}
			handler := NewHandler(Deps{Ingest: svc})
			rec := doRequest(t, handler, http.MethodGet, "/api/profile/jdoe")
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body["detail"] == "" {
				t.Error("error response missing detail")
			}
		})
	}
}

func TestDegradedServiceAnswers503(t *testing.T) {
	handler := NewHandler(Deps{})
	for _, target := range []string{"/api/profile/jdoe", "/api/queue", "/api/health"} {
		rec := doRequest(t, handler, http.MethodGet, target)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", target, rec.Code)
		}
	}

	// The index stays reachable regardless.
	rec := doRequest(t, handler, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Errorf("index status = %d, want 200", rec.Code)
	}
}

func TestQueueStatusPayload(t *testing.T) {
	svc := &mockIngest{
		status: ingest.QueueStatus{WaitingRequestsCount: 2, EstimatedCompletionTimestamp: 1717243200},
	}
	handler := NewHandler(Deps{Ingest: svc})

	rec := doRequest(t, handler, http.MethodGet, "/api/queue")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status map[string]int64
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if status["waiting_requests_count"] != 2 {
		t.Errorf("waiting_requests_count = %d", status["waiting_requests_count"])
	}
	if status["estimated_completion_timestamp"] != 1717243200 {
		t.Errorf("estimated_completion_timestamp = %d", status["estimated_completion_timestamp"])
	}
}

func TestHistoryEndpoint(t *testing.T) {
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:): %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Record(storage.IngestRecord{ID: "r1", ProfileID: "jdoe", Outcome: storage.OutcomeOK}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	handler := NewHandler(Deps{Ingest: &mockIngest{}, History: store})

	rec := doRequest(t, handler, http.MethodGet, "/api/history?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/history?limit=bogus")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid limit status = %d, want 400", rec.Code)
	}
}

func TestHistoryDisabled(t *testing.T) {
	handler := NewHandler(Deps{Ingest: &mockIngest{}})
	rec := doRequest(t, handler, http.MethodGet, "/api/history")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
