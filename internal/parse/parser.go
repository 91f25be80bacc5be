/*
Package parse extracts structured fields from raw support-case text.

Everything here is best-effort heuristic extraction over free text: there
is no parse failure state, and a field that matches nothing is simply left
empty. The raw text itself is not modified; redaction of the body is the
caller's concern.
*/
package parse

import (
	"regexp"
	"strings"
)

// Parsed holds the structural fields extracted from one raw case text.
type Parsed struct {
	CaseID        string
	Summary       string
	Symptoms      []string
	Environment   map[string]string
	ErrorPatterns []string
	Tags          []string
	Priority      string
}

// NoSummary is the sentinel summary when no content line qualifies.
const NoSummary = "No summary available"

const maxErrorPatterns = 5

// caseIDPatterns are tried in order; the first match wins. There is no
// numeric fallback beyond this list. Patterns with a capture group rebuild
// the id as prefix + captured digits.
var caseIDPatterns = []struct {
	re     *regexp.Regexp
	prefix string
}{
	{regexp.MustCompile(`\bICM-\d+`), ""},
	{regexp.MustCompile(`\bIncident-\d+`), ""},
	{regexp.MustCompile(`(?i)Support Request Number:\s*(\d+)`), "Support-"},
	{regexp.MustCompile(`\bSupport-\d+`), ""},
}

var envPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{"subscription_id", regexp.MustCompile(`(?i)subscription\s*id\s*[:=]\s*([0-9a-fA-F-]{36}|\S+)`)},
	{"workspace_id", regexp.MustCompile(`(?i)workspace\s*id\s*[:=]\s*(\S+)`)},
	{"agent_version", regexp.MustCompile(`(?i)agent\s*version\s*[:=]\s*(\S+)`)},
	{"os_version", regexp.MustCompile(`(?i)os\s*version\s*[:=]\s*([^\n\r]+)`)},
}

// tagPatterns map known topic labels to their whole-text detectors. A tag
// is assigned iff its detector matches anywhere in the raw text.
var tagPatterns = []struct {
	tag string
	re  *regexp.Regexp
}{
	{"AMA", regexp.MustCompile(`\bAMA\b|(?i)azure monitor agent`)},
	{"DCR", regexp.MustCompile(`\bDCR\b|(?i)data collection rule`)},
	{"LogAnalytics", regexp.MustCompile(`(?i)log analytics|workspace`)},
	{"Heartbeat", regexp.MustCompile(`(?i)heartbeat`)},
	{"Extension", regexp.MustCompile(`(?i)\bextension\b`)},
	{"Syslog", regexp.MustCompile(`(?i)\bsyslog\b`)},
	{"WindowsEvents", regexp.MustCompile(`(?i)windows event|event log`)},
	{"Performance", regexp.MustCompile(`(?i)\b(?:slow|timeout|latency|performance)\b`)},
	{"Connectivity", regexp.MustCompile(`(?i)\b(?:connection|network|unreachable|dns|proxy)\b`)},
	{"Authentication", regexp.MustCompile(`(?i)\bauth|login|permission|access denied`)},
}

var (
	priorityLabelRe = regexp.MustCompile(`(?i)(?:priority|severity)\s*[:=]\s*(critical|high|medium|low)`)
	sevLabelRe      = regexp.MustCompile(`(?i)\bsev\s*[:=]?\s*([1-4])\b`)

	symptomBulletRe = regexp.MustCompile(`^(?:[-*•]|\d+\.)\s+(.+)$`)
	symptomLabelRe  = regexp.MustCompile(`(?i)^(?:symptom|issue|problem)s?\s*[:=]\s*(.+)$`)
)

// boilerplatePhrases disqualify a line from being the summary.
var boilerplatePhrases = []string{
	"Support Request Number",
	"Auto-generated",
	"Do not reply",
	"CONFIDENTIAL",
}

// Parse extracts all structural fields from raw text.
func Parse(raw string) Parsed {
	lines := splitLines(raw)

	return Parsed{
		CaseID:        DetectCaseID(raw),
		Summary:       extractSummary(lines),
		Symptoms:      extractSymptoms(lines),
		Environment:   extractEnvironment(raw),
		ErrorPatterns: extractErrorPatterns(lines),
		Tags:          extractTags(raw),
		Priority:      extractPriority(raw),
	}
}

// DetectCaseID returns the first case identifier found in text, or "".
func DetectCaseID(text string) string {
	for _, p := range caseIDPatterns {
		if p.prefix != "" {
			if m := p.re.FindStringSubmatch(text); m != nil {
				return p.prefix + m[1]
			}
			continue
		}
		if m := p.re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// extractSummary returns the first line longer than 20 characters that is
// neither a separator nor boilerplate, or the NoSummary sentinel.
func extractSummary(lines []string) string {
	for _, line := range lines {
		if len(line) <= 20 {
			continue
		}
		if isSeparator(line) {
			continue
		}
		if containsBoilerplate(line) {
			continue
		}
		return line
	}
	return NoSummary
}

func isSeparator(line string) bool {
	switch line[0] {
	case '-', '=', '*', '_', '#':
		return true
	}
	return false
}

func containsBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// extractSymptoms collects bullet and label-marked candidate sentences
// longer than 10 characters, in document order, without deduplication.
func extractSymptoms(lines []string) []string {
	var symptoms []string
	for _, line := range lines {
		var candidate string
		if m := symptomBulletRe.FindStringSubmatch(line); m != nil {
			candidate = m[1]
		} else if m := symptomLabelRe.FindStringSubmatch(line); m != nil {
			candidate = m[1]
		}
		candidate = strings.TrimSpace(candidate)
		if len(candidate) > 10 {
			symptoms = append(symptoms, candidate)
		}
	}
	return symptoms
}

func extractEnvironment(raw string) map[string]string {
	env := make(map[string]string)
	for _, p := range envPatterns {
		if m := p.re.FindStringSubmatch(raw); m != nil {
			env[p.key] = strings.TrimSpace(m[1])
		}
	}
	return env
}

// extractErrorPatterns keeps lines containing an error marker, first-seen
// order, deduplicated, capped at maxErrorPatterns. Matching is
// case-sensitive substring containment.
func extractErrorPatterns(lines []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range lines {
		if !strings.Contains(line, "Error") &&
			!strings.Contains(line, "Exception") &&
			!strings.Contains(line, "Failed") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
		if len(out) == maxErrorPatterns {
			break
		}
	}
	return out
}

func extractTags(raw string) []string {
	var tags []string
	for _, p := range tagPatterns {
		if p.re.MatchString(raw) {
			tags = append(tags, p.tag)
		}
	}
	return tags
}

// extractPriority reads an explicit priority/severity label first, then
// falls back to keyword heuristics. The default is "medium".
func extractPriority(raw string) string {
	if m := priorityLabelRe.FindStringSubmatch(raw); m != nil {
		return strings.ToLower(m[1])
	}
	if m := sevLabelRe.FindStringSubmatch(raw); m != nil {
		switch m[1] {
		case "1":
			return "critical"
		case "2":
			return "high"
		case "3":
			return "medium"
		default:
			return "low"
		}
	}

	lower := strings.ToLower(raw)
	for _, word := range []string{"critical", "outage", "service unavailable"} {
		if strings.Contains(lower, word) {
			return "critical"
		}
	}
	for _, word := range []string{"urgent", "high priority", "business critical"} {
		if strings.Contains(lower, word) {
			return "high"
		}
	}
	return "medium"
}
