package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/securego/cwelookup/nvd"
)

// FakeNVD serves the cveId lookup of the NVD CVE API 2.0
type FakeNVD struct {
	*httptest.Server

	records  map[string][]string
	statuses map[string]int

	mu      sync.Mutex
	queried []string
	keys    []string
	agents  []string
}

// NewFakeNVD starts a CVE API endpoint that knows the given records. Ids
// listed in statuses are answered with that HTTP status instead.
func NewFakeNVD(records map[string][]string, statuses map[string]int) *FakeNVD {
	f := &FakeNVD{records: records, statuses: statuses}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

// APIURL is the CVE API location on the fake server
func (f *FakeNVD) APIURL() string {
	return f.Server.URL + "/rest/json/cves/2.0"
}

func (f *FakeNVD) serve(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("cveId")

	f.mu.Lock()
	f.queried = append(f.queried, id)
	f.keys = append(f.keys, r.Header.Get("apiKey"))
	f.agents = append(f.agents, r.Header.Get("User-Agent"))
	f.mu.Unlock()

	if status, ok := f.statuses[id]; ok {
		w.WriteHeader(status)
		return
	}

	doc := nvd.Response{Format: "NVD_CVE", Version: "2.0", Vulnerabilities: []nvd.Vulnerability{}}
	if values, ok := f.records[id]; ok {
		doc.ResultsPerPage, doc.TotalResults = 1, 1
		doc.Vulnerabilities = append(doc.Vulnerabilities, nvd.Vulnerability{CVE: Record(id, values)})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

// Queried returns the cveId parameters received so far
func (f *FakeNVD) Queried() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queried...)
}

// APIKeys returns the apiKey headers received so far
func (f *FakeNVD) APIKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

// UserAgents returns the User-Agent headers received so far
func (f *FakeNVD) UserAgents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.agents...)
}
