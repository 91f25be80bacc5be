/*
Package redact strips personally identifiable information from free text and
reverses the substitution on demand.

Redaction applies a fixed, ordered list of pattern detectors over an
accumulator string. Each match is replaced by a token of the form
[CLASS_N], where N is a per-class counter starting at 1 for every call
(no state leaks between calls), and the token → original pair is recorded
in a mapping. Rehydration replaces tokens as literal strings; it never
treats a token as a pattern, and tokens missing from the mapping are left
verbatim.
*/
package redact

import (
	"fmt"
	"sort"
	"strings"
)

// Redact replaces every PII match in text with a class-counted token and
// returns the redacted text plus the token → original mapping. The mapping
// is empty (non-nil) when nothing matched. Redaction never fails.
func Redact(text string) (string, map[string]string) {
	mapping := make(map[string]string)
	counters := make(map[string]int)

	out := text
	for _, d := range detectors {
		out = applyDetector(out, d, counters, mapping)
	}
	return out, mapping
}

// applyDetector substitutes one detector's matches in text, assigning the
// next counter for the detector's class per match. For detectors with
// capture groups only the last group's span is replaced.
func applyDetector(text string, d detector, counters map[string]int, mapping map[string]string) string {
	locs := d.re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if d.re.NumSubexp() > 0 {
			// Last group carries the sensitive value.
			g := d.re.NumSubexp() * 2
			if loc[g] >= 0 {
				start, end = loc[g], loc[g+1]
			}
		}

		counters[d.class]++
		token := fmt.Sprintf("[%s_%d]", d.class, counters[d.class])
		mapping[token] = text[start:end]

		b.WriteString(text[prev:start])
		b.WriteString(token)
		prev = end
	}
	b.WriteString(text[prev:])
	return b.String()
}

// Rehydrate substitutes every token in text back to its original value.
// Tokens are replaced as literal strings, longest token first so that a
// shorter token name is never applied inside a longer one. Tokens absent
// from the mapping stay in the text; an empty or nil mapping is a no-op.
func Rehydrate(text string, mapping map[string]string) string {
	if len(mapping) == 0 {
		return text
	}

	tokens := make([]string, 0, len(mapping))
	for token := range mapping {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})

	out := text
	for _, token := range tokens {
		out = strings.ReplaceAll(out, token, mapping[token])
	}
	return out
}

// Scrub replaces known original values in text with their already-assigned
// tokens. It is used to clean structured fields extracted from raw text:
// any value the body redaction caught is substituted with the same token,
// so body and fields never disagree on token numbering.
func Scrub(text string, mapping map[string]string) string {
	if len(mapping) == 0 {
		return text
	}

	// Deterministic application order: longest original first, then by
	// token name, so overlapping values (a path containing a GUID) resolve
	// the same way every run.
	tokens := make([]string, 0, len(mapping))
	for token := range mapping {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		oi, oj := mapping[tokens[i]], mapping[tokens[j]]
		if len(oi) != len(oj) {
			return len(oi) > len(oj)
		}
		return tokens[i] < tokens[j]
	})

	out := text
	for _, token := range tokens {
		out = strings.ReplaceAll(out, mapping[token], token)
	}
	return out
}
