package cwelookup

import "strings"

// AdvisoryPrefix marks a GitHub security advisory identifier.
const AdvisoryPrefix = "GHSA"

// Kind distinguishes the identifier families accepted by the resolver
type Kind int

const (
	// KindCVE is a Common Vulnerabilities and Exposures identifier
	KindCVE Kind = iota
	// KindAdvisory is a GitHub security advisory identifier
	KindAdvisory
)

func (k Kind) String() string {
	switch k {
	case KindAdvisory:
		return "GHSA"
	default:
		return "CVE"
	}
}

// MarshalText renders the kind in reports
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Identifier is a raw identifier as supplied by the caller
type Identifier struct {
	Raw  string
	Kind Kind
}

// ParseIdentifier classifies a raw identifier by its prefix. Anything that is
// not an advisory is treated as a CVE.
func ParseIdentifier(raw string) Identifier {
	return Identifier{Raw: raw, Kind: kindOf(raw)}
}

// Key returns the canonical lookup key of the identifier
func (id Identifier) Key() string {
	return normalize(id.Raw, id.Kind)
}

// Normalize strips the trailing segments some scanners append to an
// identifier. Advisories keep four hyphen separated segments, CVEs keep three.
// Inputs with fewer segments are returned re-joined as they are.
func Normalize(raw string) string {
	return normalize(raw, kindOf(raw))
}

func kindOf(raw string) Kind {
	if len(raw) >= len(AdvisoryPrefix) && raw[:len(AdvisoryPrefix)] == AdvisoryPrefix {
		return KindAdvisory
	}
	return KindCVE
}

func normalize(raw string, kind Kind) string {
	segments := 3
	if kind == KindAdvisory {
		segments = 4
	}
	parts := strings.SplitN(raw, "-", segments+1)
	if len(parts) > segments {
		parts = parts[:segments]
	}
	return strings.Join(parts, "-")
}
