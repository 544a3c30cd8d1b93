package cwelookup

import (
	"fmt"

	"github.com/securego/cwelookup/cwe"
)

// Status tags the outcome of resolving a single identifier
type Status int

const (
	// StatusResolved means one or more CWE identifiers were found
	StatusResolved Status = iota
	// StatusUnknown means the source had no informative classification
	StatusUnknown
	// StatusMissing means the key is not present in the snapshot
	StatusMissing
	// StatusFailed means the lookup itself failed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusUnknown:
		return "unknown"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText renders the status in reports
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of resolving one identifier
type Result struct {
	ID         string   `json:"id" yaml:"id"`
	Key        string   `json:"key" yaml:"key"`
	Kind       Kind     `json:"kind" yaml:"kind"`
	Source     string   `json:"source" yaml:"source"`
	Status     Status   `json:"status" yaml:"status"`
	Weaknesses []string `json:"weaknesses,omitempty" yaml:"weaknesses,omitempty"`
	Message    string   `json:"error,omitempty" yaml:"error,omitempty"`
	Err        error    `json:"-" yaml:"-"`
}

// Resolved creates a result holding the given CWE identifiers. Without any
// identifier the result degrades to unknown.
func Resolved(ids ...string) Result {
	if len(ids) == 0 {
		return Unknown()
	}
	return Result{Status: StatusResolved, Weaknesses: ids}
}

// Unknown creates a result without informative classification
func Unknown() Result {
	return Result{Status: StatusUnknown}
}

// Missing creates a result for a key absent from the snapshot
func Missing() Result {
	return Result{Status: StatusMissing}
}

// Failed creates a result for a lookup that could not be completed
func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err, Message: err.Error()}
}

// Values flattens the result into the entries emitted for it. Unknown and
// failed results contribute exactly one entry, missing ones none.
func (r Result) Values() []string {
	switch r.Status {
	case StatusResolved:
		return r.Weaknesses
	case StatusUnknown:
		return []string{cwe.Unknown}
	case StatusFailed:
		return []string{r.Message}
	}
	return nil
}
