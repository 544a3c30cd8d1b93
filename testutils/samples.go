package testutils

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/securego/cwelookup/nvd"
)

// SampleSnapshot maps CVE ids to the weakness values of their snapshot
// records. A nil slice produces a record without a weaknesses field.
var SampleSnapshot = map[string][]string{
	"CVE-2021-44228": {"CWE-502", "CWE-917"},
	"CVE-2020-0001":  {"NVD-CWE-noinfo"},
	"CVE-2020-0002":  {"NVD-CWE-Other"},
	"CVE-2014-0160":  {"CWE-125"},
	"CVE-2019-0001":  nil,
}

// SampleAdvisories maps advisory ids to the CWE ids GitHub lists for them
var SampleAdvisories = map[string][]string{
	"GHSA-xxxx-yyyy-zzzz": {"CWE-79"},
	"GHSA-jfh8-c2jp-5v3q": {"CWE-502", "CWE-400"},
	"GHSA-0000-0000-0000": {},
}

// Record builds an NVD CVE record with one weakness per value
func Record(id string, values []string) *nvd.CVE {
	record := &nvd.CVE{ID: id}
	if values == nil {
		return record
	}
	record.Weaknesses = make([]nvd.Weakness, 0, len(values))
	for _, v := range values {
		record.Weaknesses = append(record.Weaknesses, nvd.Weakness{
			Source:      "nvd@nist.gov",
			Type:        "Primary",
			Description: []nvd.LangValue{{Lang: "en", Value: v}},
		})
	}
	return record
}

// SnapshotDocument renders weaknesses as a snapshot JSON document
func SnapshotDocument(weaknesses map[string][]string) []byte {
	doc := make(map[string]*nvd.CVE, len(weaknesses))
	for id, values := range weaknesses {
		doc[id] = Record(id, values)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

// WriteSnapshot stores a snapshot document in dir and returns its path
func WriteSnapshot(dir string, weaknesses map[string][]string) (string, error) {
	path := filepath.Join(dir, "nvd-snapshot.json")
	return path, os.WriteFile(path, SnapshotDocument(weaknesses), 0o600)
}
