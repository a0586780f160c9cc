package normalize

import (
	"sort"

	"github.com/example/review-pulse/internal/domain"
)

// FallbackFeature collects issues with no component and no fix version.
const FallbackFeature = "Other"

// FeatureFor derives an issue's feature key: first component, else first
// fix version, else the fallback bucket. Components and fix versions double
// as feature names so the grouping works on any project without a mapping.
func FeatureFor(is domain.Issue) string {
	if len(is.Components) > 0 && is.Components[0] != "" { return is.Components[0] }
	if len(is.FixVersions) > 0 { return is.FixVersions[0] }
	return FallbackFeature
}

// GroupByFeature buckets issues by feature key. Groups keep member order and
// are sorted for display: most issues first, the fallback bucket always
// last.
func GroupByFeature(issues []domain.Issue) []domain.FeatureGroup {
	idx := map[string]int{}
	var groups []domain.FeatureGroup
	for _, is := range issues {
		name := FeatureFor(is)
		i, ok := idx[name]
		if !ok {
			i = len(groups)
			idx[name] = i
			groups = append(groups, domain.FeatureGroup{
				FeatureName: name,
				Stats:       newStats(),
			})
		}
		groups[i].Issues = append(groups[i].Issues, is)
		tally(&groups[i].Stats, is)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		oi := groups[i].FeatureName == FallbackFeature
		oj := groups[j].FeatureName == FallbackFeature
		if oi != oj { return oj }
		return groups[i].Stats.TotalIssues > groups[j].Stats.TotalIssues
	})
	return groups
}

// GroupByProject is the audit grouping by literal project key. Unordered.
func GroupByProject(issues []domain.Issue) map[string]domain.ProjectGroup {
	out := map[string]domain.ProjectGroup{}
	for _, is := range issues {
		key := is.ProjectKey
		if key == "" { key = "Unknown" }
		g, ok := out[key]
		if !ok {
			name := is.Project
			if name == "" { name = "Unknown" }
			g = domain.ProjectGroup{ProjectKey: key, ProjectName: name, Stats: newStats()}
		}
		g.Issues = append(g.Issues, is)
		tally(&g.Stats, is)
		out[key] = g
	}
	return out
}

func newStats() domain.GroupStats {
	return domain.GroupStats{IssueTypes: map[string]int{}, Statuses: map[string]int{}}
}

func tally(st *domain.GroupStats, is domain.Issue) {
	st.TotalIssues++
	typ := is.IssueType
	if typ == "" { typ = "Other" }
	st.IssueTypes[typ]++
	status := is.Status
	if status == "" { status = "Unknown" }
	st.Statuses[status]++
}
