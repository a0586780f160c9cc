/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package summarize

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/review-pulse/internal/adapters/groq"
	"github.com/example/review-pulse/internal/config"
	"github.com/example/review-pulse/internal/domain"
	"github.com/example/review-pulse/internal/normalize"
)

const (
	quickMaxTokens = 512
	fullMaxTokens  = 4096

	// topIssuesPerFeature bounds the Stage-B prompt to the highest-scoring
	// member summaries.
	topIssuesPerFeature = 25

	failedSummaryPrefix = "[Summary failed] "
)

type Generator interface {
	Generate(ctx context.Context, model, system, user string, maxTokens int64) (string, error)
}

// Pipeline drives the three sequential summarization stages. Execution is
// deliberately single-flight: the provider enforces a per-minute request
// ceiling, so a fixed delay follows every generation call.
type Pipeline struct {
	cfg   config.Config
	log   zerolog.Logger
	llm   Generator
	sleep func(time.Duration)
}

func New(cfg config.Config, log zerolog.Logger, llm Generator) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, llm: llm, sleep: time.Sleep}
}

// generate runs one request on the primary model; on a throttled response it
// waits briefly and retries exactly once on the fallback model. Any other
// failure propagates to the call site's per-item policy.
func (p *Pipeline) generate(ctx context.Context, primary, fallback, system, user string, maxTokens int64) (string, error) {
	out, err := p.llm.Generate(ctx, primary, system, user, maxTokens)
	if err == nil { return out, nil }
	if !errors.Is(err, groq.ErrThrottled) { return "", err }
	p.log.Warn().Str("model", primary).Str("fallback", fallback).Msg("summarize: rate limited, retrying on fallback model")
	p.sleep(p.cfg.FallbackDelay)
	return p.llm.Generate(ctx, fallback, system, user, maxTokens)
}

// SummarizeIssues is Stage A: one quick-tier narrative per issue whose
// status is not on the excluded denylist. A failed generation yields a
// sentinel summary wrapping the issue's original title, never an abort.
func (p *Pipeline) SummarizeIssues(ctx context.Context, issues []domain.Issue) []domain.IssueSummary {
	excluded := map[string]struct{}{}
	for _, s := range p.cfg.ExcludedStatuses { excluded[s] = struct{}{} }

	var eligible []domain.Issue
	for _, is := range issues {
		if _, skip := excluded[is.Status]; skip { continue }
		eligible = append(eligible, is)
	}
	p.log.Info().Int("eligible", len(eligible)).Int("skipped", len(issues)-len(eligible)).Msg("summarize: stage A start")

	out := make([]domain.IssueSummary, 0, len(eligible))
	for i, is := range eligible {
		sum := domain.IssueSummary{
			Key:             is.Key,
			Feature:         normalize.FeatureFor(is),
			Project:         is.Project,
			ProjectKey:      is.ProjectKey,
			OriginalSummary: is.Summary,
		}
		text, err := p.generate(ctx, p.cfg.GroqModelQuick, p.cfg.GroqModelQuickFallback,
			issueSystem, issuePrompt(is), quickMaxTokens)
		if err != nil {
			p.log.Error().Err(err).Str("key", is.Key).Msg("summarize: issue summary failed, writing sentinel")
			sum.Summary = failedSummaryPrefix + is.Summary
		} else {
			sum.Summary = text
			p.sleep(p.cfg.RequestDelay)
		}
		out = append(out, sum)
		if (i+1)%20 == 0 {
			p.log.Info().Int("done", i+1).Int("total", len(eligible)).Msg("summarize: stage A progress")
		}
	}
	return out
}

// SummarizeFeatures is Stage B: one full-tier overview per feature group,
// fed the group's top-scoring Stage-A summaries. A feature whose generation
// fails is omitted from Stage C, not sentineled.
func (p *Pipeline) SummarizeFeatures(ctx context.Context, groups []domain.FeatureGroup, issueSummaries []domain.IssueSummary) []domain.FeatureSummary {
	var out []domain.FeatureSummary
	for _, g := range groups {
		var members []domain.IssueSummary
		for _, s := range issueSummaries {
			if s.Feature == g.FeatureName { members = append(members, s) }
		}
		if len(members) == 0 { continue }

		text, err := p.generate(ctx, p.cfg.GroqModelFull, p.cfg.GroqModelFullFallback,
			featureSystem, featurePrompt(g.FeatureName, members), fullMaxTokens)
		if err != nil {
			p.log.Warn().Err(err).Str("feature", g.FeatureName).Msg("summarize: feature summary failed, omitting from final review")
			continue
		}
		out = append(out, domain.FeatureSummary{Feature: g.FeatureName, IssueCount: len(members), Summary: text})
		p.sleep(p.cfg.RequestDelay)
	}
	return out
}

// FinalReview is Stage C: one full-tier synthesis over every successful
// feature summary. There is no meaningful partial result, so failure is
// returned as-is.
func (p *Pipeline) FinalReview(ctx context.Context, features []domain.FeatureSummary, totalIssues int) (string, error) {
	text, err := p.generate(ctx, p.cfg.GroqModelFull, p.cfg.GroqModelFullFallback,
		reviewSystem, reviewPrompt(features, totalIssues), fullMaxTokens)
	if err != nil { return "", fmt.Errorf("summarize: final review: %w", err) }
	return text, nil
}

// rankMembers orders member summaries by descending complexity score with
// stable order on ties, truncated to the Stage-B cap.
func rankMembers(members []domain.IssueSummary) []domain.IssueSummary {
	ranked := make([]domain.IssueSummary, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ComplexityScore(ranked[i].Summary) > ComplexityScore(ranked[j].Summary)
	})
	if len(ranked) > topIssuesPerFeature { ranked = ranked[:topIssuesPerFeature] }
	return ranked
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n { return s }
	return string(r[:n])
}

const issueSystem = "You are a technical writer creating concise issue summaries for a performance review. Focus on accomplishments and impact."

func issuePrompt(is domain.Issue) string {
	parts := []string{
		"Issue: " + is.Key,
		"Type: " + is.IssueType,
		"Summary: " + is.Summary,
		"Status: " + is.Status,
	}
	if is.Description != "" {
		parts = append(parts, "Description: "+truncate(is.Description, 500))
	}
	comments := is.Comments
	if len(comments) > 3 { comments = comments[len(comments)-3:] }
	for _, c := range comments {
		parts = append(parts, fmt.Sprintf("Comment by %s: %s", c.Author, truncate(c.Text, 200)))
	}
	context := strings.Join(parts, "\n")

	return "Summarize this Jira issue in 2-3 sentences focusing on what was accomplished.\n" +
		"Write in third-person (not \"I\"). Be specific about technical work done.\n\n" +
		context + "\n\nSummary:"
}

const featureSystem = "You are helping prepare a performance review summary. Be professional, concise, and highlight impact."

func featurePrompt(feature string, members []domain.IssueSummary) string {
	top := rankMembers(members)
	lines := make([]string, 0, len(top))
	for _, s := range top {
		lines = append(lines, "- "+truncate(s.Summary, 120))
	}

	return fmt.Sprintf(`Summarize work on %q feature/product at a high level (third-person perspective).

Work items (%d total):
%s

Write:
1. Overview (2-3 sentences, third-person: "The contributor..." or "Work on this feature...")
2. Key accomplishments (group related items together)
3. Impact statement

IMPORTANT: Group related tickets into single accomplishments. Don't list the same work multiple times.`,
		feature, len(members), strings.Join(lines, "\n"))
}

const reviewSystem = "You are a technical writer creating an objective, well-formatted performance review summary. Write in third-person. Focus on technical depth, clear structure, and measurable impact. Use proper markdown formatting."

func reviewPrompt(features []domain.FeatureSummary, totalIssues int) string {
	blocks := make([]string, 0, len(features))
	for _, f := range features {
		if f.Summary == "" { continue }
		blocks = append(blocks, fmt.Sprintf("## %s (%d issues)\n%s", f.Feature, f.IssueCount, f.Summary))
	}

	return fmt.Sprintf(`Create a comprehensive performance review summary from these feature contributions. Write in THIRD-PERSON (not "I" - use "The contributor" or passive voice).

Total: %d issues across features/products

%s

Write a well-formatted summary document with the following structure:

## Executive Summary
2-3 sentences providing a high-level overview of the contributor's work and overall impact.

## Key Themes
Bullet points identifying 3-5 recurring themes across all projects (e.g., "System reliability improvements", "Mobile app enhancements").

## Top 10 Accomplishments

List EXACTLY 10 major accomplishments, ordered from MOST IMPACTFUL to LEAST IMPACTFUL. For each accomplishment:
- Use a clear, bold heading describing the feature/project
- Write 3-5 sentences explaining:
  * What was done technically (specific technologies, integrations, or systems involved)
  * Why it was challenging or significant (complexity, scope, business criticality)
  * The measurable impact or outcome (user experience, performance, reliability)

Format each accomplishment as:
### 1. [Accomplishment Title]
[3-5 sentence paragraph]

## Technical Growth Areas
Bullet points highlighting skills demonstrated or developed.

## Impact Statement
A concluding paragraph summarizing the overall value delivered.

IMPORTANT RULES:
- Write in third-person throughout (never use "I" or "my")
- Group related work into single accomplishments (don't repeat similar items)
- Prioritize complex, multi-month, or architectural efforts over small/quick fixes
- Order accomplishments by business/technical impact (most impactful first)
- Each accomplishment MUST have 3-5 substantive sentences, not one-liners
- Use proper markdown formatting with headers and bold text`,
		totalIssues, strings.Join(blocks, "\n\n"))
}
