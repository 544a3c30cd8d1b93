// Package cwe holds the Common Weakness Enumeration helpers shared by every
// resolver: identifier formatting, the unknown sentinel and the NVD
// placeholder values that carry no classification.
package cwe

import (
	"fmt"
	"strings"
)

const (
	// Acronym is the prefix of every CWE identifier
	Acronym = "CWE"

	// Unknown is emitted whenever no informative classification exists
	Unknown = "CWE-unknown"
	// NVDOther is the NVD placeholder for a weakness outside the CWE slice used by NVD
	NVDOther = "NVD-CWE-Other"
	// NVDNoInfo is the NVD placeholder for insufficient information
	NVDNoInfo = "NVD-CWE-noinfo"
)

// Weakness is a catalogued CWE weakness
type Weakness struct {
	ID   string
	Name string
}

// SprintURL format the CWE URL
func (w *Weakness) SprintURL() string {
	return fmt.Sprintf("https://cwe.mitre.org/data/definitions/%s.html", w.ID)
}

// SprintID format the CWE ID
func (w *Weakness) SprintID() string {
	return fmt.Sprintf("%s-%s", Acronym, w.ID)
}

// Canonical maps the NVD placeholders to the unknown sentinel and leaves
// every other value untouched
func Canonical(value string) string {
	if value == NVDOther || value == NVDNoInfo {
		return Unknown
	}
	return value
}

// NumericID extracts the number of a "CWE-<n>" identifier
func NumericID(id string) (string, bool) {
	num, ok := strings.CutPrefix(id, Acronym+"-")
	if !ok || num == "" {
		return "", false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return num, true
}
