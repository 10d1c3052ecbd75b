// Package backend talks to the encore server: stream URLs, listening
// analytics and the radio station directory.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/session"
)

const (
	userAgent    = "encore-player/1.0"
	maxCoverSize = 8 << 20
)

// Client is an encore server API client.
type Client struct {
	base       *url.URL
	token      string
	httpClient *http.Client
	now        func() time.Time
}

// New creates a client for the server at baseURL authenticating with token.
func New(baseURL, token string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse server url: unsupported scheme %q", u.Scheme)
	}
	return &Client{
		base:  u,
		token: token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}, nil
}

// Secure reports whether the server is reached over HTTPS.
func (c *Client) Secure() bool {
	return c.base.Scheme == "https"
}

// RadioProxyURL is the server endpoint that relays plain HTTP radio streams.
func (c *Client) RadioProxyURL() string {
	return c.endpoint("/api/radio/proxy")
}

// TokenExpiry returns the token's exp claim. Opaque tokens have none.
func (c *Client) TokenExpiry() (time.Time, bool) {
	if c.token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Authenticated reports whether a usable token is configured.
func (c *Client) Authenticated() bool {
	return c.checkToken() == nil
}

func (c *Client) checkToken() error {
	if c.token == "" {
		return ErrNoToken
	}
	if exp, ok := c.TokenExpiry(); ok && !c.now().Before(exp) {
		return ErrTokenExpired
	}
	return nil
}

// StreamURL returns a playable URL for a track. The token in the URL is
// time limited, so URLs are resolved right before loading.
func (c *Client) StreamURL(trackID string) (string, error) {
	if err := c.checkToken(); err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("token", c.token)
	return c.endpoint("/api/tracks/"+url.PathEscape(trackID)+"/stream") + "?" + q.Encode(), nil
}

// CoverURL returns the album cover image URL, or "" without an album or
// a usable token.
func (c *Client) CoverURL(albumID string) string {
	if albumID == "" || c.checkToken() != nil {
		return ""
	}
	q := url.Values{}
	q.Set("token", c.token)
	return c.endpoint("/api/albums/"+url.PathEscape(albumID)+"/cover") + "?" + q.Encode()
}

// Cover downloads the album cover image.
func (c *Client) Cover(ctx context.Context, albumID string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/albums/"+url.PathEscape(albumID)+"/cover", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "fetch cover", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: "fetch cover", Status: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize))
	if err != nil {
		return nil, &NetworkError{Op: "fetch cover", Err: err}
	}
	return data, nil
}

type playPayload struct {
	TrackID        string  `json:"trackId"`
	CompletionRate float64 `json:"completionRate"`
	TotalDuration  float64 `json:"totalDuration"`
	Context        string  `json:"context"`
	SourceID       string  `json:"sourceId,omitempty"`
	SourceType     string  `json:"sourceType,omitempty"`
	PlayedAt       string  `json:"playedAt"`
}

type skipPayload struct {
	TrackID       string  `json:"trackId"`
	ListenedTime  float64 `json:"listenedTime"`
	TotalDuration float64 `json:"totalDuration"`
	Context       string  `json:"context"`
	SourceID      string  `json:"sourceId,omitempty"`
	SourceType    string  `json:"sourceType,omitempty"`
}

// RecordPlay submits a play record.
func (c *Client) RecordPlay(ctx context.Context, rec session.PlayRecord) error {
	return c.post(ctx, "record play", "/api/analytics/plays", playPayload{
		TrackID:        rec.Track.ID,
		CompletionRate: rec.CompletionRate,
		TotalDuration:  rec.TotalDuration.Seconds(),
		Context:        string(rec.Context),
		SourceID:       rec.Source.ID,
		SourceType:     rec.Source.Type,
		PlayedAt:       rec.StartedAt.UTC().Format(time.RFC3339),
	})
}

// RecordSkip submits a skip record.
func (c *Client) RecordSkip(ctx context.Context, rec session.SkipRecord) error {
	return c.post(ctx, "record skip", "/api/analytics/skips", skipPayload{
		TrackID:       rec.Track.ID,
		ListenedTime:  rec.ListenedTime.Seconds(),
		TotalDuration: rec.TotalDuration.Seconds(),
		Context:       string(rec.Context),
		SourceID:      rec.Source.ID,
		SourceType:    rec.Source.Type,
	})
}

type stationPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ResolvedURL string `json:"resolvedUrl"`
}

// Stations lists the radio stations saved on the server.
func (c *Client) Stations(ctx context.Context) ([]radio.Station, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/radio/stations", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "list stations", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: "list stations", Status: resp.StatusCode}
	}

	var payload []stationPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	stations := make([]radio.Station, len(payload))
	for i, p := range payload {
		stations[i] = radio.Station{ID: p.ID, Name: p.Name, URL: p.URL, ResolvedURL: p.ResolvedURL}
	}
	return stations, nil
}

func (c *Client) post(ctx context.Context, op, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Op: op, Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, c.endpoint(path), http.NoBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

var _ session.Sink = (*Client)(nil)
