/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package normalize is the single defaulting boundary between the tracker's
// raw nested documents and the flat domain model. Missing or malformed
// fields become empty values here; no other package inspects raw payloads.
package normalize

import (
	"fmt"
	"strings"

	"github.com/example/review-pulse/internal/domain"
)

// TextFromADF extracts plain text from an Atlassian Document Format tree.
// Literal text node payloads are collected in document order and joined with
// single spaces. Nil or empty input yields ""; a plain string passes
// through unchanged.
func TextFromADF(v any) string {
	if v == nil { return "" }
	if s, ok := v.(string); ok { return s }
	var parts []string
	var walk func(node any)
	walk = func(node any) {
		switch n := node.(type) {
		case map[string]any:
			if t, _ := n["type"].(string); t == "text" {
				parts = append(parts, str(n["text"]))
			}
			walk(n["content"])
		case []any:
			for _, it := range n { walk(it) }
		}
	}
	walk(v)
	return strings.Join(parts, " ")
}

// Issue flattens one raw record plus its discussion thread. Pure; tolerates
// any malformed shape by defaulting.
func Issue(raw map[string]any, comments []any) domain.Issue {
	fields, _ := raw["fields"].(map[string]any)
	changelog, _ := raw["changelog"].(map[string]any)

	var events []domain.ChangeEvent
	var fixVersions []string
	seenVersions := map[string]struct{}{}
	histories, _ := changelog["histories"].([]any)
	for _, h0 := range histories {
		hv, _ := h0.(map[string]any)
		if hv == nil { continue }
		date := str(hv["created"])
		author := displayName(hv["author"])
		items, _ := hv["items"].([]any)
		for _, it0 := range items {
			itm, _ := it0.(map[string]any)
			if itm == nil { continue }
			field := str(itm["field"])
			to := str(itm["toString"])
			events = append(events, domain.ChangeEvent{
				Date:   date,
				Author: author,
				Field:  field,
				From:   str(itm["fromString"]),
				To:     to,
			})
			// fix versions come from the changelog, not the live field:
			// versions assigned after creation must count too
			if field == "Fix Version" && to != "" {
				if _, dup := seenVersions[to]; !dup {
					seenVersions[to] = struct{}{}
					fixVersions = append(fixVersions, to)
				}
			}
		}
	}

	var ncomments []domain.Comment
	for _, c0 := range comments {
		cm, _ := c0.(map[string]any)
		if cm == nil { continue }
		ncomments = append(ncomments, domain.Comment{
			Author: displayName(cm["author"]),
			Date:   str(cm["created"]),
			Text:   TextFromADF(cm["body"]),
		})
	}

	var components []string
	if arr, ok := fields["components"].([]any); ok {
		for _, c0 := range arr {
			if cm, _ := c0.(map[string]any); cm != nil {
				components = append(components, str(cm["name"]))
			}
		}
	}
	var labels []string
	if arr, ok := fields["labels"].([]any); ok {
		for _, l0 := range arr {
			if s, ok := l0.(string); ok { labels = append(labels, s) }
		}
	}

	return domain.Issue{
		Key:         str(raw["key"]),
		Project:     nested(fields, "project", "name", "Unknown"),
		ProjectKey:  nested(fields, "project", "key", ""),
		IssueType:   nested(fields, "issuetype", "name", "Unknown"),
		Summary:     str(fields["summary"]),
		Description: TextFromADF(fields["description"]),
		Status:      nested(fields, "status", "name", "Unknown"),
		Priority:    nested(fields, "priority", "name", ""),
		Resolution:  nested(fields, "resolution", "name", ""),
		Assignee:    nested(fields, "assignee", "displayName", ""),
		Reporter:    nested(fields, "reporter", "displayName", ""),
		Created:     str(fields["created"]),
		Updated:     str(fields["updated"]),
		Labels:      labels,
		Components:  components,
		FixVersions: fixVersions,
		Comments:    ncomments,
		Changelog:   events,
	}
}

func str(v any) string {
	if v == nil { return "" }
	if s, ok := v.(string); ok { return s }
	return fmt.Sprintf("%v", v)
}

func nested(fields map[string]any, key, sub, def string) string {
	if m, ok := fields[key].(map[string]any); ok {
		if s := str(m[sub]); s != "" { return s }
	}
	return def
}

func displayName(v any) string {
	if m, ok := v.(map[string]any); ok {
		if s := str(m["displayName"]); s != "" { return s }
	}
	return "Unknown"
}
