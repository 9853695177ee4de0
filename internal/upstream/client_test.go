package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeSource stands in for the profile source: it issues a session cookie on
// the seed request and answers the auth and API endpoints.
func fakeSource(t *testing.T, loginResult string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/uas/authenticate", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: `"ajax:123"`, Path: "/"})
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"login_result": "` + loginResult + `"}`))
	})
	mux.HandleFunc("/voyager/api/identity/profiles/jdoe/profileView", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("csrf-token") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(`{"firstName": "Jane", "lastName": "Doe"}`))
	})
	mux.HandleFunc("/voyager/api/identity/profileUpdatesV2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements": [{"actor": {"urn": "urn:li:member:1"}}]}`))
	})
	mux.HandleFunc("/voyager/api/identity/wvmpCards", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, loginResult string) (*Client, error) {
	t.Helper()
	srv := fakeSource(t, loginResult)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:  srv.URL,
		Username: "user@example.com",
		Password: "hunter2",
	})
}

func TestNewAuthenticates(t *testing.T) {
	c, err := newTestClient(t, "PASS")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.csrfToken != "ajax:123" {
		t.Errorf("csrfToken = %q, want the JSESSIONID value", c.csrfToken)
	}
}

func TestNewChallengeRequired(t *testing.T) {
	_, err := newTestClient(t, "CHALLENGE")
	var challenge *ChallengeError
	if !errors.As(err, &challenge) {
		t.Fatalf("err = %v, want ChallengeError", err)
	}
}

func TestNewBadCredentials(t *testing.T) {
	_, err := newTestClient(t, "BAD_PASSWORD")
	if err == nil {
		t.Fatal("expected error")
	}
	var challenge *ChallengeError
	if errors.As(err, &challenge) {
		t.Fatal("generic auth failure must not look like a challenge")
	}
}

func TestNewMissingCredentials(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestFetchProfile(t *testing.T) {
	c, err := newTestClient(t, "PASS")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	raw, err := c.FetchProfile(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if !strings.Contains(string(raw), `"firstName"`) {
		t.Errorf("unexpected payload: %s", raw)
	}
}

func TestFetchProfileNotFound(t *testing.T) {
	c, err := newTestClient(t, "PASS")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.FetchProfile(context.Background(), "nobody"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestFetchPostsUnwrapsElements(t *testing.T) {
	c, err := newTestClient(t, "PASS")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	raw, err := c.FetchPosts(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("FetchPosts: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		t.Errorf("posts payload is not the elements array: %s", raw)
	}
}

func TestDecoyCall(t *testing.T) {
	c, err := newTestClient(t, "PASS")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.ProfileViews(context.Background()); err != nil {
		t.Errorf("ProfileViews: %v", err)
	}
}
