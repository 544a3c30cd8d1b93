package testutils

import (
	"github.com/securego/cwelookup"
)

// SampleBatch returns a batch holding one result of every status
func SampleBatch() *cwelookup.Batch {
	results := []cwelookup.Result{
		cwelookup.Resolved("CWE-502"),
		cwelookup.Unknown(),
		cwelookup.Missing(),
		cwelookup.Failed(&cwelookup.StatusError{StatusCode: 404}),
		cwelookup.Resolved("CWE-79"),
	}
	stamp := []struct{ id, key, source string }{
		{"CVE-2021-44228", "CVE-2021-44228", "snapshot"},
		{"CVE-2020-0001-EXTRA", "CVE-2020-0001", "snapshot"},
		{"CVE-1999-0001", "CVE-1999-0001", "snapshot"},
		{"CVE-2023-0404", "CVE-2023-0404", "snapshot"},
		{"GHSA-xxxx-yyyy-zzzz", "GHSA-xxxx-yyyy-zzzz", "ghsa"},
	}
	for i := range results {
		id := cwelookup.ParseIdentifier(stamp[i].id)
		results[i].ID = id.Raw
		results[i].Key = stamp[i].key
		results[i].Kind = id.Kind
		results[i].Source = stamp[i].source
	}
	return &cwelookup.Batch{
		RunID:   "3f1c9a52-7a43-4f0c-9a83-1b1f1a0f4c2e",
		Mode:    cwelookup.ModeSnapshot,
		Results: results,
		Stats: &cwelookup.Stats{
			Identifiers: 5, Entries: 4, Resolved: 2, Unknown: 1, Missing: 1, Failed: 1,
		},
	}
}
