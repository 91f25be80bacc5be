package storage

import "time"

// Case is one ingested support incident. ContentRedacted is the only copy
// of body text the case table retains; originals live in the vault keyed
// by redaction token. Cases are immutable after creation.
type Case struct {
	CaseID          string            `json:"caseId"`
	Summary         string            `json:"summary"`
	Symptoms        []string          `json:"symptoms,omitempty"`
	Environment     map[string]string `json:"environment,omitempty"`
	ErrorPatterns   []string          `json:"errorPatterns,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	Priority        string            `json:"priority,omitempty"`
	ContentRedacted string            `json:"contentRedacted"`
	WordCount       int               `json:"wordCount"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Vault maps caseId → (token → original value). A case has a vault entry
// only if at least one PII match occurred during its redaction pass.
type Vault map[string]map[string]string
