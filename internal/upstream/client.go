// Package upstream talks to the profile source. It owns session handling and
// the challenge-required failure mode; the rest of the service only sees the
// narrow fetch/decoy contract.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://www.linkedin.com"
	apiPrefix      = "/voyager/api"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ChallengeError means the source demands an interactive challenge before it
// will issue a session. It is fatal for the whole service instance, not for
// one request, and callers distinguish it from generic auth failures so the
// operator knows a manual login is needed.
type ChallengeError struct {
	Reason string
}

func (e *ChallengeError) Error() string {
	return "upstream requires an interactive challenge: " + e.Reason
}

// Config holds the credentials and knobs for one session.
type Config struct {
	BaseURL  string // defaults to the public endpoint
	Username string
	Password string
	Timeout  time.Duration // per-request; defaults to 30s
}

// Client is an authenticated session against the profile source.
type Client struct {
	baseURL    string
	httpClient *http.Client
	csrfToken  string
	logger     *slog.Logger
}

// New authenticates and returns a ready client. A challenge demand surfaces
// as *ChallengeError; anything else (bad credentials, network) as a generic
// error. Both leave the service unable to ingest.
func New(cfg Config) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("upstream credentials not provided")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
		logger: slog.Default(),
	}

	if err := c.authenticate(cfg.Username, cfg.Password); err != nil {
		return nil, err
	}
	return c, nil
}

// authenticate performs the session handshake: seed the anonymous session
// cookie, then exchange credentials for an authenticated one.
func (c *Client) authenticate(username, password string) error {
	seed, err := c.httpClient.Get(c.baseURL + "/uas/authenticate")
	if err != nil {
		return fmt.Errorf("seeding session: %w", err)
	}
	io.Copy(io.Discard, seed.Body)
	seed.Body.Close()

	form := url.Values{
		"session_key":      {username},
		"session_password": {password},
		"JSESSIONID":       {c.sessionID()},
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/uas/authenticate", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Li-User-Agent", "LIAuthLibrary:0.0.3 com.linkedin.android:4.1.881")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		LoginResult string `json:"login_result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("reading auth response (status %d): %w", resp.StatusCode, err)
	}
	switch {
	case result.LoginResult == "CHALLENGE":
		return &ChallengeError{Reason: "login_result=CHALLENGE"}
	case resp.StatusCode != http.StatusOK || result.LoginResult != "PASS":
		return fmt.Errorf("authentication failed: status %d, result %q", resp.StatusCode, result.LoginResult)
	}

	c.csrfToken = c.sessionID()
	if c.csrfToken == "" {
		return fmt.Errorf("authentication succeeded but no session cookie was issued")
	}
	return nil
}

// sessionID returns the current JSESSIONID cookie value; the API expects it
// back as the csrf-token header on every call.
func (c *Client) sessionID() string {
	u, _ := url.Parse(c.baseURL)
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		if ck.Name == "JSESSIONID" {
			return strings.Trim(ck.Value, `"`)
		}
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.linkedin.normalized+json+2.1")
	req.Header.Set("csrf-token", c.csrfToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	c.logger.Debug("upstream fetch", "path", path, "bytes", len(body))
	return body, nil
}

// FetchProfile returns the raw profile record for a public identifier.
func (c *Client) FetchProfile(ctx context.Context, publicID string) (json.RawMessage, error) {
	body, err := c.get(ctx, "/identity/profiles/"+url.PathEscape(publicID)+"/profileView", nil)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 || string(body) == "{}" {
		return nil, fmt.Errorf("profile %s not found", publicID)
	}
	return body, nil
}

// FetchPosts returns the raw activity records for a public identifier. The
// envelope's elements array is extracted so callers see an ordered sequence
// of opaque records.
func (c *Client) FetchPosts(ctx context.Context, publicID string) (json.RawMessage, error) {
	query := url.Values{
		"q":          {"memberShareFeed"},
		"profileUrn": {"urn:li:fsd_profile:" + publicID},
		"count":      {"10"},
		"moduleKey":  {"member-shares:phone"},
	}
	body, err := c.get(ctx, "/identity/profileUpdatesV2", query)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Elements json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding posts envelope: %w", err)
	}
	if len(envelope.Elements) == 0 {
		return nil, fmt.Errorf("posts for %s not found", publicID)
	}
	return envelope.Elements, nil
}

// Decoy calls. Results are discarded: their only purpose is traffic-shape
// obfuscation, so the caller logs failures and moves on.

// ProfileViews checks the signed-in account's own view count.
func (c *Client) ProfileViews(ctx context.Context) error {
	_, err := c.get(ctx, "/identity/wvmpCards", nil)
	return err
}

// Invitations lists a small page of pending invitations.
func (c *Client) Invitations(ctx context.Context, start, limit int) error {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"count": {strconv.Itoa(limit)},
	}
	_, err := c.get(ctx, "/relationships/invitationViews", query)
	return err
}

// FeedPosts peeks at the account's own feed.
func (c *Client) FeedPosts(ctx context.Context, limit int) error {
	query := url.Values{
		"q":     {"chronFeed"},
		"count": {strconv.Itoa(limit)},
	}
	_, err := c.get(ctx, "/feed/updatesV2", query)
	return err
}
