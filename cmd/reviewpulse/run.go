package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/review-pulse/internal/adapters/groq"
	"github.com/example/review-pulse/internal/adapters/jira"
	"github.com/example/review-pulse/internal/config"
	"github.com/example/review-pulse/internal/domain"
	"github.com/example/review-pulse/internal/extract"
	"github.com/example/review-pulse/internal/normalize"
	"github.com/example/review-pulse/internal/store"
	"github.com/example/review-pulse/internal/summarize"
)

// runExtraction is the extraction half of the run: fetch, normalize, group,
// persist. Prior output is cleared first; the run fully regenerates it.
func runExtraction(ctx context.Context, cfg config.Config, log zerolog.Logger) ([]domain.Issue, []domain.FeatureGroup, error) {
	if err := cfg.RequireJira(); err != nil { return nil, nil, err }

	st := store.New(cfg, log)
	if err := st.Reset(); err != nil { return nil, nil, err }

	ex := extract.New(cfg, log, jira.NewClient(cfg, log))
	raw, err := ex.FetchAllIssues(ctx)
	if err != nil { return nil, nil, err }
	if len(raw) == 0 {
		log.Warn().Str("range", cfg.DateRangeLabel()).Msg("no issues matched the query")
		return nil, nil, nil
	}
	if err := st.WriteRawIssues(raw); err != nil { return nil, nil, err }

	comments := ex.FetchComments(ctx, raw)
	if err := st.WriteRawComments(comments); err != nil { return nil, nil, err }

	issues := make([]domain.Issue, 0, len(raw))
	for _, im := range raw {
		key, _ := im["key"].(string)
		issues = append(issues, normalize.Issue(im, comments[key]))
	}
	if err := st.WriteNormalized(issues); err != nil { return nil, nil, err }

	groups := normalize.GroupByFeature(issues)
	if err := st.WriteFeatureGroups(groups); err != nil { return nil, nil, err }
	if err := st.WriteProjectGroups(normalize.GroupByProject(issues)); err != nil { return nil, nil, err }

	stats := buildRunStats(cfg, groups, len(issues))
	if err := st.WriteRunStats(stats); err != nil { return nil, nil, err }

	log.Info().
		Str("run_id", stats.RunID).
		Int("issues", stats.TotalIssues).
		Int("features", stats.TotalFeatures).
		Msg("extraction complete")
	return issues, groups, nil
}

// runSummarization drives the three pipeline stages over normalized data and
// persists each stage's output as it completes.
func runSummarization(ctx context.Context, cfg config.Config, log zerolog.Logger, issues []domain.Issue, groups []domain.FeatureGroup) error {
	if err := cfg.RequireGroq(); err != nil { return err }

	st := store.New(cfg, log)
	pipe := summarize.New(cfg, log, groq.NewClient(cfg, log))

	issueSums := pipe.SummarizeIssues(ctx, issues)
	if err := st.WriteIssueSummaries(issueSums); err != nil { return err }

	featureSums := pipe.SummarizeFeatures(ctx, groups, issueSums)
	if err := st.WriteFeatureSummaries(featureSums); err != nil { return err }

	body, err := pipe.FinalReview(ctx, featureSums, len(issueSums))
	if err != nil { return err }
	path, err := st.WriteReview(body, cfg.DateRangeLabel(), time.Now())
	if err != nil { return err }

	log.Info().Str("path", path).Msg("review summary written")
	return nil
}

func buildRunStats(cfg config.Config, groups []domain.FeatureGroup, total int) domain.RunStats {
	feats := make([]domain.FeatureStats, 0, len(groups))
	for _, g := range groups {
		feats = append(feats, domain.FeatureStats{
			Name:       g.FeatureName,
			Issues:     g.Stats.TotalIssues,
			IssueTypes: g.Stats.IssueTypes,
			Statuses:   g.Stats.Statuses,
		})
	}
	return domain.RunStats{
		RunID:         uuid.NewString(),
		ExtractedAt:   time.Now().Format(time.RFC3339),
		DateRange:     cfg.DateRangeLabel(),
		TotalIssues:   total,
		TotalFeatures: len(groups),
		Features:      feats,
	}
}
