/*
Package engine composes the parser, redactor, policy profile, storage
backend and search scorer into the case lifecycle: add, get, search,
export and stats.

An Engine owns its in-memory case table and vault for the process
lifetime. Both are loaded lazily from storage on first use and cached;
the single-writer-per-data-directory assumption means no re-reads and no
internal locking. Construction takes the storage and policy dependencies
explicitly so isolated engines can coexist in one process.
*/
package engine

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"casevault/internal/parse"
	"casevault/internal/policy"
	"casevault/internal/redact"
	"casevault/internal/search"
	"casevault/internal/storage"
)

// ErrRehydrationDenied marks a full-rehydration request refused by the
// active policy profile or impossible for lack of a vault entry. Callers
// must distinguish it from not-found (a nil case) and from storage errors.
var ErrRehydrationDenied = errors.New("full rehydration not permitted")

// ErrEmptyContent rejects AddCase calls with no usable content.
var ErrEmptyContent = errors.New("case content is empty")

// Engine orchestrates the case lifecycle under one policy profile.
type Engine struct {
	store   storage.Store
	profile policy.Profile
	audit   *storage.AuditTrail

	cases  map[string]*storage.Case
	vault  storage.Vault
	loaded bool

	now func() time.Time
}

// New creates an engine bound to a storage backend and policy profile.
// trail may be nil when the profile does not audit.
func New(store storage.Store, profile policy.Profile, trail *storage.AuditTrail) *Engine {
	if trail == nil {
		trail = storage.NopAuditTrail()
	}
	return &Engine{
		store:   store,
		profile: profile,
		audit:   trail,
		now:     time.Now,
	}
}

// Profile returns the active policy profile.
func (e *Engine) Profile() policy.Profile { return e.profile }

// load populates the cached case table and vault on first use. Corrupt or
// undecryptable persisted state is recovered as an empty table with a
// warning: the engine stays usable with fresh-start semantics instead of
// crashing.
func (e *Engine) load() {
	if e.loaded {
		return
	}
	e.loaded = true

	cases, err := e.store.LoadCases()
	if err != nil {
		log.Printf("Warning: case table unreadable, starting empty: %v", err)
		cases = make(map[string]*storage.Case)
	}
	vault, err := e.store.LoadVault()
	if err != nil {
		log.Printf("Warning: vault unreadable, starting empty: %v", err)
		vault = make(storage.Vault)
	}
	e.cases = cases
	e.vault = vault
}

// AddCase ingests raw content and returns the resolved case id.
//
// The parser and the redactor both run over the same original text: the
// redactor produces the stored body and the token mapping, and every
// structured field the parser extracted is then scrubbed with that same
// mapping, so a value caught in the body can never survive in a field.
// Id resolution priority: explicit caller id, then an id detected in the
// content, then a generated fallback. The case is persisted
// unconditionally; a vault entry only when at least one PII match occurred.
func (e *Engine) AddCase(content, explicitID string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	e.load()

	parsed := parse.Parse(content)

	redacted := content
	mapping := map[string]string{}
	if e.profile.RequireRedaction {
		redacted, mapping = redact.Redact(content)
	}

	id := explicitID
	if id == "" {
		id = parsed.CaseID
	}
	if id == "" {
		id = fmt.Sprintf("CASE-%d", e.now().Unix())
	}

	now := e.now().UTC()
	c := &storage.Case{
		CaseID:          id,
		Summary:         redact.Scrub(parsed.Summary, mapping),
		Symptoms:        scrubAll(parsed.Symptoms, mapping),
		Environment:     scrubMap(parsed.Environment, mapping),
		ErrorPatterns:   scrubAll(parsed.ErrorPatterns, mapping),
		Tags:            parsed.Tags,
		Priority:        parsed.Priority,
		ContentRedacted: redacted,
		WordCount:       len(strings.Fields(content)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	e.cases[id] = c
	if err := e.store.SaveCases(e.cases); err != nil {
		e.recordAudit("add_case", id, "storage_error")
		return "", fmt.Errorf("failed to persist case: %w", err)
	}

	if len(mapping) > 0 {
		e.vault[id] = mapping
		if err := e.store.SaveVault(e.vault); err != nil {
			e.recordAudit("add_case", id, "storage_error")
			return "", fmt.Errorf("failed to persist vault: %w", err)
		}
	}

	e.recordAudit("add_case", id, "ok")
	return id, nil
}

// GetCase returns the stored case record (redacted content only), or
// nil for an unknown id. Absence is not an error.
func (e *Engine) GetCase(id string) (*storage.Case, error) {
	e.load()
	e.recordAudit("get_case", id, "ok")
	return e.cases[id], nil
}

// RehydratedCase is a case record plus its read-time rehydrated body. The
// stored record is never modified; rehydration exists only in the response.
type RehydratedCase struct {
	*storage.Case
	ContentRehydrated string `json:"contentRehydrated"`
}

// GetCaseFull returns the case with its content rehydrated from the
// vault. It requires both a vault entry and a profile that allows full
// rehydration; either missing yields an error wrapping
// ErrRehydrationDenied. An unknown id returns nil, nil.
func (e *Engine) GetCaseFull(id string) (*RehydratedCase, error) {
	e.load()

	c, ok := e.cases[id]
	if !ok {
		return nil, nil
	}
	if !e.profile.AllowFullRehydration {
		e.recordAudit("get_case_full", id, "denied")
		return nil, fmt.Errorf("%w under profile %q", ErrRehydrationDenied, e.profile.Name)
	}
	mapping, ok := e.vault[id]
	if !ok {
		e.recordAudit("get_case_full", id, "denied")
		return nil, fmt.Errorf("case %s has no vault entry: %w", id, ErrRehydrationDenied)
	}

	e.recordAudit("get_case_full", id, "ok")
	return &RehydratedCase{
		Case:              c,
		ContentRehydrated: redact.Rehydrate(c.ContentRedacted, mapping),
	}, nil
}

// Search ranks the cached case table against query. The vault is never
// consulted.
func (e *Engine) Search(query string, limit int) []search.Result {
	e.load()
	return search.Run(e.cases, query, limit)
}

// Cases returns all cases ordered by creation time, then id.
func (e *Engine) Cases() []*storage.Case {
	e.load()

	out := make([]*storage.Case, 0, len(e.cases))
	for _, c := range e.cases {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CaseID < out[j].CaseID
	})
	return out
}

func (e *Engine) recordAudit(op, caseID, outcome string) {
	if !e.profile.AuditLog {
		return
	}
	e.audit.Record(storage.AuditEvent{
		Op:      op,
		CaseID:  caseID,
		Profile: e.profile.Name,
		Outcome: outcome,
	})
}

func scrubAll(values []string, mapping map[string]string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = redact.Scrub(v, mapping)
	}
	return out
}

func scrubMap(values map[string]string, mapping map[string]string) map[string]string {
	if len(values) == 0 {
		return values
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = redact.Scrub(v, mapping)
	}
	return out
}
