package engine

import (
	"time"

	"casevault/internal/redact"
	"casevault/internal/storage"
)

const (
	contextMaxSymptoms = 3
	contextMaxErrors   = 3
	contextMaxPreview  = 500
)

// exportType tags every context envelope so external consumers can
// identify the payload shape.
const exportType = "casevault/context"

// CaseContext is the trimmed, external-facing projection of one case.
// It never includes vault data; under an outbound-scrubbing profile every
// carried field goes through one more redaction pass before leaving.
type CaseContext struct {
	CaseID         string            `json:"caseId"`
	Summary        string            `json:"summary"`
	Symptoms       []string          `json:"symptoms,omitempty"`
	Environment    map[string]string `json:"environment,omitempty"`
	ErrorPatterns  []string          `json:"errorPatterns,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Priority       string            `json:"priority,omitempty"`
	ContentPreview string            `json:"contentPreview"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ContextExport is the envelope wrapping one or more case contexts for
// external consumption.
type ContextExport struct {
	Type        string         `json:"type"`
	Count       int            `json:"count"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Cases       []*CaseContext `json:"cases"`
}

// GetCaseContext returns the context projection for one case, or nil for
// an unknown id.
func (e *Engine) GetCaseContext(id string) (*CaseContext, error) {
	e.load()

	c, ok := e.cases[id]
	if !ok {
		return nil, nil
	}
	e.recordAudit("get_case_context", id, "ok")
	return e.project(c), nil
}

// ExportContext maps each id through the context projection, silently
// dropping ids that resolve to nothing, and wraps the survivors in a
// typed envelope.
func (e *Engine) ExportContext(ids []string) *ContextExport {
	e.load()

	contexts := make([]*CaseContext, 0, len(ids))
	for _, id := range ids {
		if c, ok := e.cases[id]; ok {
			contexts = append(contexts, e.project(c))
		}
	}

	e.recordAudit("export_context", "", "ok")
	return &ContextExport{
		Type:        exportType,
		Count:       len(contexts),
		GeneratedAt: e.now().UTC(),
		Cases:       contexts,
	}
}

func (e *Engine) project(c *storage.Case) *CaseContext {
	preview := c.ContentRedacted
	if len(preview) > contextMaxPreview {
		preview = preview[:contextMaxPreview] + "..."
	}

	ctx := &CaseContext{
		CaseID:         c.CaseID,
		Summary:        c.Summary,
		Symptoms:       head(c.Symptoms, contextMaxSymptoms),
		Environment:    c.Environment,
		ErrorPatterns:  head(c.ErrorPatterns, contextMaxErrors),
		Tags:           c.Tags,
		Priority:       c.Priority,
		ContentPreview: preview,
		CreatedAt:      c.CreatedAt,
	}

	if e.profile.OutboundScrub {
		ctx.Summary = scrubOutbound(ctx.Summary)
		ctx.Symptoms = scrubAllOutbound(ctx.Symptoms)
		ctx.Environment = scrubMapOutbound(ctx.Environment)
		ctx.ErrorPatterns = scrubAllOutbound(ctx.ErrorPatterns)
		ctx.ContentPreview = scrubOutbound(ctx.ContentPreview)
	}
	return ctx
}

func head(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

// scrubOutbound runs one more redaction pass over outgoing text. The
// mapping is discarded: outbound data is one-way.
func scrubOutbound(text string) string {
	out, _ := redact.Redact(text)
	return out
}

func scrubAllOutbound(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = scrubOutbound(v)
	}
	return out
}

func scrubMapOutbound(values map[string]string) map[string]string {
	if len(values) == 0 {
		return values
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = scrubOutbound(v)
	}
	return out
}
