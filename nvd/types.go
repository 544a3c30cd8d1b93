// Package nvd talks to the National Vulnerability Database CVE API 2.0 and
// holds the record types shared with local NVD exports.
package nvd

// Response is the top-level document returned by the CVE API
type Response struct {
	ResultsPerPage  int             `json:"resultsPerPage"`
	StartIndex      int             `json:"startIndex"`
	TotalResults    int             `json:"totalResults"`
	Format          string          `json:"format"`
	Version         string          `json:"version"`
	Timestamp       string          `json:"timestamp"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

// Vulnerability wraps a CVE entry
type Vulnerability struct {
	CVE *CVE `json:"cve"`
}

// CVE holds the CVE fields consumed by the resolver. Weaknesses is nil when
// the record carries no weaknesses field at all.
type CVE struct {
	ID               string      `json:"id"`
	SourceIdentifier string      `json:"sourceIdentifier,omitempty"`
	Published        string      `json:"published,omitempty"`
	LastModified     string      `json:"lastModified,omitempty"`
	VulnStatus       string      `json:"vulnStatus,omitempty"`
	Descriptions     []LangValue `json:"descriptions,omitempty"`
	Weaknesses       []Weakness  `json:"weaknesses"`
}

// Weakness is one weakness statement of a CVE, usually one per source
type Weakness struct {
	Source      string      `json:"source"`
	Type        string      `json:"type"`
	Description []LangValue `json:"description"`
}

// LangValue is a {lang, value} pair
type LangValue struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

// HasWeaknesses reports whether the record carries a weaknesses field
func (c *CVE) HasWeaknesses() bool {
	return c != nil && c.Weaknesses != nil
}

// Value returns the first description value of the weakness
func (w Weakness) Value() (string, bool) {
	if len(w.Description) == 0 {
		return "", false
	}
	return w.Description[0].Value, true
}

// FirstDescribed returns the value of the first weakness that has a description
func FirstDescribed(weaknesses []Weakness) (string, bool) {
	for _, w := range weaknesses {
		if v, ok := w.Value(); ok {
			return v, true
		}
	}
	return "", false
}
