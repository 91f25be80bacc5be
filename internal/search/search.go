/*
Package search ranks cases against a free-text query.

Matching is case-insensitive substring containment, not tokenized or
stemmed. Each field class contributes a fixed weight at most once per
case, regardless of how many values in that class match. Cases that match
nothing are excluded entirely.
*/
package search

import (
	"sort"
	"strings"
	"time"

	"casevault/internal/storage"
)

// Field weights, highest-signal first. A summary hit outranks any other
// single-field hit.
const (
	weightSummary = 10
	weightError   = 9
	weightSymptom = 8
	weightTag     = 5
	weightContent = 3
)

// DefaultLimit caps results when the caller passes limit <= 0.
const DefaultLimit = 10

// Result is one ranked hit. It carries enough to render a result line but
// never the redacted body itself.
type Result struct {
	CaseID        string    `json:"caseId"`
	Score         int       `json:"score"`
	MatchedFields []string  `json:"matchedFields"`
	Summary       string    `json:"summary"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Run scores every case in the table against query and returns the top
// limit results, highest score first. Ties break by case id ascending so
// ranking is stable across runs.
func Run(cases map[string]*storage.Case, query string, limit int) []Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	results := make([]Result, 0)
	for _, c := range cases {
		if r, ok := scoreCase(c, q); ok {
			results = append(results, r)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CaseID < results[j].CaseID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreCase accumulates field weights for one case. Each field class
// counts once: two matching symptoms still add weightSymptom once.
func scoreCase(c *storage.Case, q string) (Result, bool) {
	score := 0
	var matched []string

	if strings.Contains(strings.ToLower(c.Summary), q) {
		score += weightSummary
		matched = append(matched, "summary")
	}
	for _, e := range c.ErrorPatterns {
		if strings.Contains(strings.ToLower(e), q) {
			score += weightError
			matched = append(matched, "errorPatterns")
			break
		}
	}
	for _, s := range c.Symptoms {
		if strings.Contains(strings.ToLower(s), q) {
			score += weightSymptom
			matched = append(matched, "symptoms")
			break
		}
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			score += weightTag
			matched = append(matched, "tags")
			break
		}
	}
	if strings.Contains(strings.ToLower(c.ContentRedacted), q) {
		score += weightContent
		matched = append(matched, "content")
	}

	if score == 0 {
		return Result{}, false
	}
	return Result{
		CaseID:        c.CaseID,
		Score:         score,
		MatchedFields: matched,
		Summary:       c.Summary,
		Tags:          c.Tags,
		CreatedAt:     c.CreatedAt,
	}, true
}
