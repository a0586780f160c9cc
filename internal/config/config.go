/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	JiraBaseURL  string
	JiraEmail    string
	JiraAPIToken string
	JiraPAT      string

	StartDate string
	EndDate   string // empty means "now"

	GroqAPIKey             string
	GroqModelQuick         string
	GroqModelFull          string
	GroqModelQuickFallback string
	GroqModelFullFallback  string

	ExcludedStatuses []string

	OutputDir string

	HTTPTimeout   time.Duration
	RequestDelay  time.Duration
	FallbackDelay time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" { return def }
	return v
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" { return def }
	d, err := time.ParseDuration(v)
	if err != nil { return def }
	return d
}

func parseStrings(csv string) []string {
	if csv == "" { return nil }
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" { continue }
		out = append(out, p)
	}
	return out
}

func Load() Config {
	// best-effort .env load; real environment wins
	_ = godotenv.Load()

	return Config{
		AppEnv: getenv("APP_ENV", "dev"),

		JiraBaseURL:  strings.TrimRight(getenv("JIRA_BASE_URL", ""), "/"),
		JiraEmail:    getenv("JIRA_EMAIL", ""),
		JiraAPIToken: getenv("JIRA_API_TOKEN", ""),
		JiraPAT:      getenv("JIRA_PAT", ""),

		StartDate: getenv("START_DATE", "2025-01-01"),
		EndDate:   getenv("END_DATE", ""),

		GroqAPIKey:             getenv("GROQ_API_KEY", ""),
		GroqModelQuick:         getenv("GROQ_MODEL_QUICK", "llama-3.1-8b-instant"),
		GroqModelFull:          getenv("GROQ_MODEL_FULL", "llama-3.3-70b-versatile"),
		GroqModelQuickFallback: getenv("GROQ_MODEL_QUICK_FALLBACK", "groq/compound-mini"),
		GroqModelFullFallback:  getenv("GROQ_MODEL_FULL_FALLBACK", "openai/gpt-oss-120b"),

		ExcludedStatuses: parseStrings(getenv("EXCLUDED_STATUSES", "Open,Waiting for support,To Do,Backlog")),

		OutputDir: getenv("OUTPUT_DIR", "output"),

		HTTPTimeout:   dur("HTTP_TIMEOUT", 30*time.Second),
		RequestDelay:  dur("LLM_REQUEST_DELAY", 2*time.Second),
		FallbackDelay: dur("LLM_FALLBACK_DELAY", time.Second),
	}
}

// RequireJira checks the credentials needed before any tracker call.
func (c Config) RequireJira() error {
	if c.JiraBaseURL == "" { return errors.New("config: JIRA_BASE_URL is required") }
	if c.JiraPAT == "" && (c.JiraEmail == "" || c.JiraAPIToken == "") {
		return errors.New("config: set JIRA_EMAIL and JIRA_API_TOKEN (or JIRA_PAT)")
	}
	if _, err := time.Parse("2006-01-02", c.StartDate); err != nil {
		return errors.New("config: START_DATE must be YYYY-MM-DD")
	}
	if c.EndDate != "" {
		if _, err := time.Parse("2006-01-02", c.EndDate); err != nil {
			return errors.New("config: END_DATE must be YYYY-MM-DD")
		}
	}
	return nil
}

// RequireGroq checks the credential needed before any generation call.
func (c Config) RequireGroq() error {
	if strings.TrimSpace(c.GroqAPIKey) == "" { return errors.New("config: GROQ_API_KEY is required") }
	return nil
}

// DateRangeLabel renders the configured range for reports, e.g.
// "2025-01-01 to present".
func (c Config) DateRangeLabel() string {
	end := c.EndDate
	if end == "" { end = "present" }
	return c.StartDate + " to " + end
}
