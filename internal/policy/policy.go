/*
Package policy defines the named security profiles that gate engine
behavior. A profile is an immutable bundle of capability flags selected
once at engine construction.
*/
package policy

// Profile is a named, immutable bundle of capability flags.
type Profile struct {
	// Name identifies the profile ("strict", "trusted").
	Name string

	// RequireRedaction forces PII redaction on every ingested case.
	RequireRedaction bool

	// AllowFullRehydration permits reversing redaction on read.
	AllowFullRehydration bool

	// EncryptVault requires the token vault to be encrypted at rest.
	EncryptVault bool

	// AuditLog records engine operations to the audit trail.
	AuditLog bool

	// OutboundScrub requires export surfaces to re-scrub outgoing data.
	OutboundScrub bool
}

// Strict is the maximally conservative profile: redaction mandatory,
// rehydration denied, vault encrypted, operations audited, outbound
// data scrubbed.
var Strict = Profile{
	Name:                 "strict",
	RequireRedaction:     true,
	AllowFullRehydration: false,
	EncryptVault:         true,
	AuditLog:             true,
	OutboundScrub:        true,
}

// Trusted is the permissive profile for local single-user work:
// redaction still applied, rehydration allowed, vault encrypted, no
// audit trail, no outbound scrub.
var Trusted = Profile{
	Name:                 "trusted",
	RequireRedaction:     true,
	AllowFullRehydration: true,
	EncryptVault:         true,
	AuditLog:             false,
	OutboundScrub:        false,
}

// DefaultName is the profile used when no profile is requested.
const DefaultName = "trusted"

// Lookup resolves a profile name. Unknown names fall back to the Trusted
// default and report found=false; callers must surface a visible warning
// on fallback, since a typo silently selecting the permissive profile
// would otherwise under-enforce the caller's expectations.
func Lookup(name string) (Profile, bool) {
	switch name {
	case "strict":
		return Strict, true
	case "trusted", "":
		return Trusted, true
	}
	return Trusted, false
}

// Names lists the shipped profile names.
func Names() []string {
	return []string{"strict", "trusted"}
}
