/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/review-pulse/internal/config"
)

const pageSize = 50

const dateLayout = "2006-01-02"

type JiraClient interface {
	SearchJQL(ctx context.Context, jql string, startAt, max int) (map[string]any, error)
	Comments(ctx context.Context, key string) ([]any, error)
}

// Extractor pulls every issue the user touched within the configured date
// range, one calendar month at a time. Monthly windows keep each query's
// result count and page walk bounded; the tracker's planner degrades badly
// on wide unbounded ranges.
type Extractor struct {
	cfg  config.Config
	log  zerolog.Logger
	jira JiraClient
	now  func() time.Time
}

func New(cfg config.Config, log zerolog.Logger, jira JiraClient) *Extractor {
	return &Extractor{cfg: cfg, log: log, jira: jira, now: time.Now}
}

type window struct {
	start time.Time
	end   time.Time
}

// monthWindows partitions [start, end] into month-sized windows. Each window
// ends no later than end; the next window starts the day after.
func monthWindows(start, end time.Time) []window {
	var out []window
	for cur := start; cur.Before(end); {
		wEnd := cur.AddDate(0, 1, 0).AddDate(0, 0, -1)
		if wEnd.After(end) { wEnd = end }
		out = append(out, window{start: cur, end: wEnd})
		cur = wEnd.AddDate(0, 0, 1)
	}
	return out
}

// buildJQL combines the five involvement predicates with the window's
// updated-range bound, newest first. Mirrors the tracker's "worked on" view.
func buildJQL(start, end string) string {
	preds := []string{
		"assignee = currentUser()",
		"reporter = currentUser()",
		"creator = currentUser()",
		"watcher = currentUser()",
		"worklogAuthor = currentUser()",
	}
	return fmt.Sprintf("(%s) AND updated >= %q AND updated <= %q ORDER BY updated DESC", strings.Join(preds, " OR "), start, end)
}

// FetchAllIssues walks every monthly window, pages each to completion, and
// deduplicates by key keeping the first occurrence. Windows overlap on
// issues updated near a month boundary, so duplicates are expected.
func (e *Extractor) FetchAllIssues(ctx context.Context) ([]map[string]any, error) {
	start, err := time.Parse(dateLayout, e.cfg.StartDate)
	if err != nil { return nil, fmt.Errorf("extract: bad START_DATE: %w", err) }
	end := e.now()
	if e.cfg.EndDate != "" {
		end, err = time.Parse(dateLayout, e.cfg.EndDate)
		if err != nil { return nil, fmt.Errorf("extract: bad END_DATE: %w", err) }
	}

	var all []map[string]any
	for _, w := range monthWindows(start, end) {
		from := w.start.Format(dateLayout)
		to := w.end.Format(dateLayout)
		jql := buildJQL(from, to)
		fetched := 0
		startAt := 0
		for {
			page, err := e.jira.SearchJQL(ctx, jql, startAt, pageSize)
			if err != nil { return nil, fmt.Errorf("extract: search %s..%s: %w", from, to, err) }
			arr, _ := page["issues"].([]any)
			for _, it := range arr {
				if im, _ := it.(map[string]any); im != nil { all = append(all, im) }
			}
			fetched += len(arr)
			total := 0
			if t, ok := page["total"].(float64); ok { total = int(t) }
			if len(arr) == 0 || startAt+len(arr) >= total { break }
			startAt += len(arr)
		}
		e.log.Info().Str("from", from).Str("to", to).Int("issues", fetched).Msg("extract: window fetched")
	}

	seen := map[string]struct{}{}
	unique := make([]map[string]any, 0, len(all))
	for _, im := range all {
		key, _ := im["key"].(string)
		if _, dup := seen[key]; dup { continue }
		seen[key] = struct{}{}
		unique = append(unique, im)
	}
	e.log.Info().Int("fetched", len(all)).Int("unique", len(unique)).Msg("extract: deduplicated")
	return unique, nil
}

// FetchComments fetches each issue's discussion thread. A failed fetch is
// logged and recorded as an empty thread; it never aborts the batch.
func (e *Extractor) FetchComments(ctx context.Context, issues []map[string]any) map[string][]any {
	out := make(map[string][]any, len(issues))
	for i, im := range issues {
		key, _ := im["key"].(string)
		if key == "" { continue }
		cs, err := e.jira.Comments(ctx, key)
		if err != nil {
			e.log.Warn().Err(err).Str("key", key).Msg("extract: comment fetch failed, defaulting to empty")
			cs = nil
		}
		if cs == nil { cs = []any{} }
		out[key] = cs
		if (i+1)%20 == 0 {
			e.log.Info().Int("done", i+1).Int("total", len(issues)).Msg("extract: comments progress")
		}
	}
	return out
}
