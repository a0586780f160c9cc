/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/review-pulse/internal/config"
	"github.com/rs/zerolog"
)

type Client struct {
	baseURL string
	email   string
	token   string
	pat     string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.JiraBaseURL,
		email:   cfg.JiraEmail,
		token:   cfg.JiraAPIToken,
		pat:     cfg.JiraPAT,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		log:     log,
	}
}

// SearchJQL pages one result window of the search/jql endpoint with full
// fields and embedded changelog.
func (c *Client) SearchJQL(ctx context.Context, jql string, startAt, max int) (map[string]any, error) {
	if jql == "" { return nil, errors.New("jira: empty jql") }
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("startAt", fmt.Sprint(startAt))
	q.Set("maxResults", fmt.Sprint(max))
	q.Set("expand", "changelog")
	q.Set("fields", "*all")
	u := c.apiURL("/rest/api/3/search/jql", q)
	return c.get(ctx, u)
}

// Comments fetches the full discussion thread of one issue.
func (c *Client) Comments(ctx context.Context, key string) ([]any, error) {
	if key == "" { return nil, errors.New("jira: empty issue key") }
	u := c.apiURL("/rest/api/3/issue/"+url.PathEscape(key)+"/comment", nil)
	out, err := c.get(ctx, u)
	if err != nil { return nil, err }
	arr, _ := out["comments"].([]any)
	return arr, nil
}

func (c *Client) apiURL(path string, q url.Values) string {
	base := strings.TrimRight(c.baseURL, "/")
	if !strings.HasPrefix(path, "/") { path = "/" + path }
	u := base + path
	if len(q) > 0 { u = u + "?" + q.Encode() }
	return u
}

func (c *Client) get(ctx context.Context, u string) (map[string]any, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		out, retry, err := c.once(ctx, u)
		if err == nil { return out, nil }
		lastErr = err
		if !retry { return nil, err }
		// backoff on 429/5xx/network
		time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, u string) (map[string]any, bool, error) {
	if c.baseURL == "" { return nil, false, errors.New("jira: empty baseURL") }
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil { return nil, false, err }
	req.Header.Set("Accept", "application/json")
	if c.pat != "" {
		req.Header.Set("Authorization", "Bearer "+c.pat)
	} else {
		req.SetBasicAuth(c.email, c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil { return nil, true, err }
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		retry := resp.StatusCode == 429 || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil { return nil, false, err }
	return out, false, nil
}
