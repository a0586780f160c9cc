package normalize

import (
	"testing"

	"github.com/example/review-pulse/internal/domain"
)

func TestFeatureFor_PrecedenceComponentThenFixVersionThenOther(t *testing.T) {
	withComponent := domain.Issue{Components: []string{"Billing"}, FixVersions: []string{"2.1"}}
	if got := FeatureFor(withComponent); got != "Billing" { t.Fatalf("got %q", got) }

	withVersion := domain.Issue{FixVersions: []string{"2.1"}}
	if got := FeatureFor(withVersion); got != "2.1" { t.Fatalf("got %q", got) }

	neither := domain.Issue{}
	if got := FeatureFor(neither); got != FallbackFeature { t.Fatalf("got %q", got) }
}

func TestGroupByFeature_EveryIssueInExactlyOneGroup(t *testing.T) {
	issues := []domain.Issue{
		{Key: "A-1", Components: []string{"Billing"}, IssueType: "Bug", Status: "Done"},
		{Key: "A-2", Components: []string{"Billing"}, IssueType: "Task", Status: "Done"},
		{Key: "A-3", FixVersions: []string{"2.1"}, IssueType: "Bug", Status: "Open"},
		{Key: "A-4", IssueType: "Bug", Status: "Done"},
	}
	groups := GroupByFeature(issues)

	total := 0
	seen := map[string]int{}
	for _, g := range groups {
		total += g.Stats.TotalIssues
		if g.Stats.TotalIssues != len(g.Issues) {
			t.Fatalf("stats and member count disagree for %s", g.FeatureName)
		}
		for _, is := range g.Issues { seen[is.Key]++ }
	}
	if total != len(issues) { t.Fatalf("group totals %d != input %d", total, len(issues)) }
	for k, n := range seen {
		if n != 1 { t.Fatalf("issue %s appears in %d groups", k, n) }
	}

	billing := groups[0]
	if billing.FeatureName != "Billing" { t.Fatalf("largest group first, got %q", billing.FeatureName) }
	if billing.Stats.IssueTypes["Bug"] != 1 || billing.Stats.IssueTypes["Task"] != 1 {
		t.Fatalf("issue type counts wrong: %v", billing.Stats.IssueTypes)
	}
	if billing.Stats.Statuses["Done"] != 2 {
		t.Fatalf("status counts wrong: %v", billing.Stats.Statuses)
	}
}

func TestGroupByFeature_OtherAlwaysLastEvenWhenLargest(t *testing.T) {
	var issues []domain.Issue
	for i := 0; i < 5; i++ { issues = append(issues, domain.Issue{Key: "O-1"}) }
	issues = append(issues,
		domain.Issue{Key: "B-1", Components: []string{"Billing"}},
		domain.Issue{Key: "S-1", Components: []string{"Search"}},
		domain.Issue{Key: "S-2", Components: []string{"Search"}},
	)
	groups := GroupByFeature(issues)
	if len(groups) != 3 { t.Fatalf("expected 3 groups, got %d", len(groups)) }
	if groups[0].FeatureName != "Search" || groups[1].FeatureName != "Billing" {
		t.Fatalf("groups must sort by descending count: %q, %q", groups[0].FeatureName, groups[1].FeatureName)
	}
	if groups[2].FeatureName != FallbackFeature {
		t.Fatalf("fallback group must be last regardless of size, got %q", groups[2].FeatureName)
	}
}

func TestGroupByProject_KeyedByLiteralProject(t *testing.T) {
	issues := []domain.Issue{
		{Key: "A-1", ProjectKey: "PAY", Project: "Payments", IssueType: "Bug", Status: "Done"},
		{Key: "A-2", ProjectKey: "PAY", Project: "Payments", IssueType: "Bug", Status: "Open"},
		{Key: "B-1", IssueType: "Task", Status: "Done"},
	}
	groups := GroupByProject(issues)
	if len(groups) != 2 { t.Fatalf("expected 2 projects, got %d", len(groups)) }
	pay := groups["PAY"]
	if pay.ProjectName != "Payments" || pay.Stats.TotalIssues != 2 {
		t.Fatalf("PAY group wrong: %#v", pay)
	}
	unknown := groups["Unknown"]
	if unknown.Stats.TotalIssues != 1 {
		t.Fatalf("issues without a project key must land in Unknown: %#v", unknown)
	}
}
