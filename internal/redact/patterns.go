package redact

import "regexp"

// detector pairs a compiled pattern with its token class.
//
// When the expression defines capture groups, only the span of the last
// group is redacted (used by label-anchored detectors such as SECRET, where
// the label itself must survive). Otherwise the whole match is redacted.
type detector struct {
	class string
	re    *regexp.Regexp
}

// detectors is the ordered pattern set. Order is load-bearing: patterns run
// sequentially against the progressively redacted text, so an earlier
// pattern consumes substrings a later one would otherwise match. The Azure
// resource path must run before the GUID and generic path detectors, GUID
// before the generic hex heuristics, EMAIL and IPV4 before HOSTNAME.
//
// Value-only detectors (SECRET, USERNAME) exclude '[' and ']' from the value
// so they can never re-match a token inserted by an earlier pass.
var detectors = []detector{
	{"AZURE", regexp.MustCompile(`(?i)/subscriptions/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(?:/[\w.-]+)*`)},
	{"GUID", regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)},
	{"EMAIL", regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)},
	{"IP", regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)},
	// Windows drive-letter paths are case-sensitive by structure: only an
	// upper-case drive letter starts one.
	{"WINPATH", regexp.MustCompile(`[A-Z]:\\[^\s\[\]]+`)},
	{"PATH", regexp.MustCompile(`(?:/[\w.-]+){2,}`)},
	{"HOST", regexp.MustCompile(`(?i)\b(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.){2,}[a-z]{2,}\b`)},
	{"SECRET", regexp.MustCompile(`(?i)\b(?:password|passwd|pwd|secret|api[_-]?key|access[_-]?token|bearer)\s*[:=]\s*([^\s\[\]]+)`)},
	{"USER", regexp.MustCompile(`(?i)\b(?:username|login|account)\s*[:=]\s*([^\s\[\]]+)`)},
}

// Classes returns the token classes in application order.
func Classes() []string {
	out := make([]string, len(detectors))
	for i, d := range detectors {
		out[i] = d.class
	}
	return out
}
