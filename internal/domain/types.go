package domain

// Issue is the flat, normalized form of one tracker record. Timestamps keep
// the source's string format; the normalizer is the only place raw fields
// are defaulted.
type Issue struct {
	Key         string        `json:"key"`
	Project     string        `json:"project"`
	ProjectKey  string        `json:"projectKey"`
	IssueType   string        `json:"issueType"`
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	Resolution  string        `json:"resolution"`
	Assignee    string        `json:"assignee"`
	Reporter    string        `json:"reporter"`
	Created     string        `json:"created"`
	Updated     string        `json:"updated"`
	Labels      []string      `json:"labels"`
	Components  []string      `json:"components"`
	FixVersions []string      `json:"fixVersions"`
	Comments    []Comment     `json:"comments"`
	Changelog   []ChangeEvent `json:"changelog"`
}

type Comment struct {
	Author string `json:"author"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

type ChangeEvent struct {
	Date   string `json:"date"`
	Author string `json:"author"`
	Field  string `json:"field"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type GroupStats struct {
	TotalIssues int            `json:"totalIssues"`
	IssueTypes  map[string]int `json:"issueTypes"`
	Statuses    map[string]int `json:"statuses"`
}

// FeatureGroup buckets issues under an inferred feature key. Groups are kept
// in display order: descending totalIssues, the "Other" bucket always last.
type FeatureGroup struct {
	FeatureName string     `json:"featureName"`
	Issues      []Issue    `json:"issues"`
	Stats       GroupStats `json:"stats"`
}

// ProjectGroup is the audit-only grouping by literal project key.
type ProjectGroup struct {
	ProjectKey  string     `json:"projectKey"`
	ProjectName string     `json:"projectName"`
	Issues      []Issue    `json:"issues"`
	Stats       GroupStats `json:"stats"`
}

type IssueSummary struct {
	Key             string `json:"key"`
	Feature         string `json:"feature"`
	Project         string `json:"project"`
	ProjectKey      string `json:"projectKey"`
	OriginalSummary string `json:"originalSummary"`
	Summary         string `json:"summary"`
}

type FeatureSummary struct {
	Feature    string `json:"feature"`
	IssueCount int    `json:"issueCount"`
	Summary    string `json:"summary"`
}

// RunStats is the summary artifact written at the end of an extraction run.
type RunStats struct {
	RunID         string         `json:"runId"`
	ExtractedAt   string         `json:"extractedAt"`
	DateRange     string         `json:"dateRange"`
	TotalIssues   int            `json:"totalIssues"`
	TotalFeatures int            `json:"totalFeatures"`
	Features      []FeatureStats `json:"features"`
}

type FeatureStats struct {
	Name       string         `json:"name"`
	Issues     int            `json:"issues"`
	IssueTypes map[string]int `json:"issueTypes"`
	Statuses   map[string]int `json:"statuses"`
}
