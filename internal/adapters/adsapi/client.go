// Package adsapi is the HTTP adapter for the external ads reporting API.
// It implements the ingestion token and fetch ports against a JSON API
// with bearer-token auth
package adsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"admetry/internal/platform/dates"
	"admetry/internal/platform/logger"
	redom "admetry/internal/services/rawevents/domain"

	perr "admetry/internal/platform/errors"
)

// HTTPClient is the minimal surface we need from net/http
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config for the ads API adapter
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// Client talks to the ads reporting API
type Client struct {
	cfg   Config
	httpc HTTPClient
	log   *logger.Logger
}

// New constructs the adapter
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, perr.Configf("adsapi: base url required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.Timeout},
		log:   logger.Named("adsapi"),
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// EnsureValidToken implements ingestion/domain.TokenPort
func (c *Client) EnsureValidToken(ctx context.Context, clientID string) (string, error) {
	var tr tokenResponse
	u := fmt.Sprintf("%s/v1/token?client=%s", strings.TrimRight(c.cfg.BaseURL, "/"), url.QueryEscape(clientID))
	if err := c.getJSON(ctx, u, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", perr.Authf("adsapi: empty token for client %q", clientID)
	}
	return tr.AccessToken, nil
}

// wireDate decodes the API's YYYY-MM-DD date layout. Some upstream
// endpoints emit full RFC 3339 timestamps instead; those are folded to
// the calendar day so natural keys stay midnight-exact
type wireDate struct{ time.Time }

func (d *wireDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if t, err := dates.Parse(s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return perr.InvalidArgf("adsapi: bad date %q: %v", s, err)
	}
	d.Time = dates.Day(t, time.UTC)
	return nil
}

// wireRow shadows MetricRow's date field with the wire layout
type wireRow struct {
	redom.MetricRow
	Date wireDate `json:"date"`
}

func (w wireRow) row() redom.MetricRow {
	r := w.MetricRow
	r.Date = w.Date.Time
	return r
}

type reportResponse struct {
	Rows []wireRow `json:"rows"`
	Next string    `json:"next"`
}

// Fetch implements ingestion/domain.FetchPort.
// Pages until the API stops returning a continuation link
func (c *Client) Fetch(ctx context.Context, accountID, token string, start, end time.Time) ([]redom.MetricRow, error) {
	q := url.Values{}
	q.Set("account", accountID)
	q.Set("start", dates.Format(start))
	q.Set("end", dates.Format(end))
	next := fmt.Sprintf("%s/v1/report?%s", strings.TrimRight(c.cfg.BaseURL, "/"), q.Encode())

	var out []redom.MetricRow
	for next != "" {
		var page reportResponse
		if err := c.getJSONAuth(ctx, next, token, &page); err != nil {
			return nil, err
		}
		for _, w := range page.Rows {
			out = append(out, w.row())
		}
		next = page.Next
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dst any) error {
	return c.do(ctx, u, c.cfg.APIKey, dst)
}

func (c *Client) getJSONAuth(ctx context.Context, u, token string, dst any) error {
	return c.do(ctx, u, token, dst)
}

// do issues a GET with retry: exponential backoff plus jitter, retrying
// only transport errors and 5xx. 401/403 map to the auth error code so
// the coordinator can flag the client for re-authorization
func (c *Client) do(ctx context.Context, u, bearer string, dst any) error {
	var lastErr error
	for i := 0; i < c.cfg.MaxRetries; i++ {
		if i > 0 {
			sleep := time.Duration((1<<i)*100) * time.Millisecond
			sleep += time.Duration(rand.Intn(150)) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sleep):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return perr.InvalidArgf("adsapi: bad request url %q: %v", u, err)
		}
		req.Header.Set("Accept", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = perr.Unavailablef("adsapi: %v", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return perr.Authf("adsapi: status %d for %s", resp.StatusCode, req.URL.Path)
		case resp.StatusCode >= 500:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			lastErr = perr.Unavailablef("adsapi: status %d body=%s", resp.StatusCode, string(body))
			continue
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return perr.Newf(perr.ErrorCodeUnknown, "adsapi: status %d body=%s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(dst)
		resp.Body.Close()
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "adsapi: decode response")
		}
		return nil
	}
	c.log.Warn().Err(lastErr).Str("url", u).Int("attempts", c.cfg.MaxRetries).Msg("ads api request gave up")
	return lastErr
}
