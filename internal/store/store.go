package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/review-pulse/internal/config"
	"github.com/example/review-pulse/internal/domain"
)

// Store owns the run's output directory. Every extraction run regenerates
// it from scratch; a summarization run reads the normalized artifacts back
// and adds its own.
type Store struct {
	dir string
	log zerolog.Logger
}

func New(cfg config.Config, log zerolog.Logger) *Store {
	return &Store{dir: cfg.OutputDir, log: log}
}

func (s *Store) rawDir() string       { return filepath.Join(s.dir, "raw") }
func (s *Store) normalizedDir() string { return filepath.Join(s.dir, "normalized") }
func (s *Store) summariesDir() string  { return filepath.Join(s.dir, "summaries") }

// Reset clears all prior run output and recreates the extraction dirs.
func (s *Store) Reset() error {
	for _, d := range []string{s.rawDir(), s.normalizedDir(), s.summariesDir()} {
		if err := os.RemoveAll(d); err != nil { return fmt.Errorf("store: clear %s: %w", d, err) }
	}
	for _, d := range []string{s.rawDir(), s.normalizedDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil { return fmt.Errorf("store: create %s: %w", d, err) }
	}
	return nil
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil { return fmt.Errorf("store: marshal %s: %w", path, err) }
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
	if err := os.WriteFile(path, data, 0o644); err != nil { return fmt.Errorf("store: write %s: %w", path, err) }
	s.log.Info().Str("path", path).Msg("store: saved")
	return nil
}

func (s *Store) WriteRawIssues(issues []map[string]any) error {
	return s.writeJSON(filepath.Join(s.rawDir(), "issues_raw.json"), issues)
}

func (s *Store) WriteRawComments(comments map[string][]any) error {
	return s.writeJSON(filepath.Join(s.rawDir(), "comments_raw.json"), comments)
}

func (s *Store) WriteNormalized(issues []domain.Issue) error {
	return s.writeJSON(filepath.Join(s.normalizedDir(), "issues_normalized.json"), issues)
}

func (s *Store) WriteFeatureGroups(groups []domain.FeatureGroup) error {
	return s.writeJSON(filepath.Join(s.normalizedDir(), "features_grouped.json"), groups)
}

func (s *Store) WriteProjectGroups(groups map[string]domain.ProjectGroup) error {
	return s.writeJSON(filepath.Join(s.normalizedDir(), "projects_grouped.json"), groups)
}

func (s *Store) WriteRunStats(stats domain.RunStats) error {
	return s.writeJSON(filepath.Join(s.normalizedDir(), "summary.json"), stats)
}

func (s *Store) WriteIssueSummaries(sums []domain.IssueSummary) error {
	return s.writeJSON(filepath.Join(s.summariesDir(), "issue_summaries.json"), sums)
}

func (s *Store) WriteFeatureSummaries(sums []domain.FeatureSummary) error {
	return s.writeJSON(filepath.Join(s.summariesDir(), "feature_summaries.json"), sums)
}

// LoadNormalized reads back a previous extraction run. Both artifacts must
// exist; otherwise summarization must fail fast.
func (s *Store) LoadNormalized() ([]domain.Issue, []domain.FeatureGroup, error) {
	issuesPath := filepath.Join(s.normalizedDir(), "issues_normalized.json")
	groupsPath := filepath.Join(s.normalizedDir(), "features_grouped.json")
	issuesData, err := os.ReadFile(issuesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("store: no extracted data at %s, run the extract command first: %w", issuesPath, err)
	}
	groupsData, err := os.ReadFile(groupsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("store: no extracted data at %s, run the extract command first: %w", groupsPath, err)
	}
	var issues []domain.Issue
	if err := json.Unmarshal(issuesData, &issues); err != nil {
		return nil, nil, fmt.Errorf("store: parse %s: %w", issuesPath, err)
	}
	var groups []domain.FeatureGroup
	if err := json.Unmarshal(groupsData, &groups); err != nil {
		return nil, nil, fmt.Errorf("store: parse %s: %w", groupsPath, err)
	}
	return issues, groups, nil
}

// WriteReview wraps the Stage-C body in the fixed document header and writes
// the final review document. Returns the written path.
func (s *Store) WriteReview(body, dateRange string, generatedAt time.Time) (string, error) {
	var b strings.Builder
	b.WriteString("# Performance Review Summary\n\n")
	fmt.Fprintf(&b, "*Generated: %s*\n\n", generatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "*Period: %s*\n\n", dateRange)
	b.WriteString("---\n\n")
	b.WriteString(body)

	path := filepath.Join(s.summariesDir(), "REVIEW_SUMMARY.md")
	if err := os.MkdirAll(s.summariesDir(), 0o755); err != nil { return "", err }
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("store: write %s: %w", path, err)
	}
	s.log.Info().Str("path", path).Msg("store: saved review")
	return path, nil
}
