package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/review-pulse/internal/config"
	"github.com/example/review-pulse/internal/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(config.Config{OutputDir: t.TempDir()}, zerolog.Nop())
}

func TestReset_ClearsPriorRunOutput(t *testing.T) {
	s := newStore(t)
	if err := s.Reset(); err != nil { t.Fatalf("reset: %v", err) }

	stale := filepath.Join(s.summariesDir(), "issue_summaries.json")
	if err := os.MkdirAll(s.summariesDir(), 0o755); err != nil { t.Fatal(err) }
	if err := os.WriteFile(stale, []byte("[]"), 0o644); err != nil { t.Fatal(err) }

	if err := s.Reset(); err != nil { t.Fatalf("second reset: %v", err) }
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale artifact must be removed on reset")
	}
	for _, d := range []string{s.rawDir(), s.normalizedDir()} {
		if fi, err := os.Stat(d); err != nil || !fi.IsDir() {
			t.Fatalf("extraction dir %s missing after reset", d)
		}
	}
}

func TestLoadNormalized_RoundTrip(t *testing.T) {
	s := newStore(t)
	if err := s.Reset(); err != nil { t.Fatal(err) }

	issues := []domain.Issue{
		{Key: "A-1", Project: "Alpha", ProjectKey: "A", Status: "Done", Components: []string{"Billing"}},
		{Key: "A-2", Project: "Alpha", ProjectKey: "A", Status: "Open"},
	}
	groups := []domain.FeatureGroup{{FeatureName: "Billing", Stats: domain.GroupStats{TotalIssues: 2}}}
	if err := s.WriteNormalized(issues); err != nil { t.Fatal(err) }
	if err := s.WriteFeatureGroups(groups); err != nil { t.Fatal(err) }

	gotIssues, gotGroups, err := s.LoadNormalized()
	if err != nil { t.Fatalf("load: %v", err) }
	if len(gotIssues) != 2 || gotIssues[0].Key != "A-1" || gotIssues[0].Components[0] != "Billing" {
		t.Fatalf("issues did not survive the round trip: %#v", gotIssues)
	}
	if len(gotGroups) != 1 || gotGroups[0].FeatureName != "Billing" || gotGroups[0].Stats.TotalIssues != 2 {
		t.Fatalf("groups did not survive the round trip: %#v", gotGroups)
	}
}

func TestLoadNormalized_MissingExtractionFailsFast(t *testing.T) {
	s := newStore(t)
	if _, _, err := s.LoadNormalized(); err == nil {
		t.Fatalf("loading without a prior extraction must fail")
	} else if !strings.Contains(err.Error(), "run the extract command first") {
		t.Fatalf("error must point at the missing extraction step, got %v", err)
	}
}

func TestLoadNormalized_RequiresBothArtifacts(t *testing.T) {
	s := newStore(t)
	if err := s.Reset(); err != nil { t.Fatal(err) }
	if err := s.WriteNormalized([]domain.Issue{{Key: "A-1"}}); err != nil { t.Fatal(err) }

	if _, _, err := s.LoadNormalized(); err == nil {
		t.Fatalf("issues alone are not enough, groups file is required too")
	}
}

func TestWriteReview_HeaderFormat(t *testing.T) {
	s := newStore(t)
	at := time.Date(2025, 7, 4, 9, 30, 0, 0, time.UTC)
	path, err := s.WriteReview("body text", "2025-01-01 to 2025-06-30", at)
	if err != nil { t.Fatalf("write review: %v", err) }

	data, err := os.ReadFile(path)
	if err != nil { t.Fatal(err) }
	want := "# Performance Review Summary\n\n" +
		"*Generated: 2025-07-04 09:30*\n\n" +
		"*Period: 2025-01-01 to 2025-06-30*\n\n" +
		"---\n\n" +
		"body text"
	if string(data) != want {
		t.Fatalf("review document mismatch:\n%s", data)
	}
}
