package junit

import (
	"encoding/xml"
	"io"

	"github.com/securego/cwelookup"
)

// GenerateReport converts a batch into one testsuite per source, with a
// testcase per identifier. Failed lookups are reported as failures.
func GenerateReport(data *cwelookup.Batch) Report {
	var xmlReport Report
	testsuites := map[string]int{}

	for _, r := range data.Results {
		index, ok := testsuites[r.Source]
		if !ok {
			xmlReport.Testsuites = append(xmlReport.Testsuites, newTestsuite(r.Source))
			index = len(xmlReport.Testsuites) - 1
			testsuites[r.Source] = index
		}
		suite := xmlReport.Testsuites[index]
		testcase := newTestcase(r)
		if testcase.Failure != nil {
			suite.Failures++
		}
		suite.Testcases = append(suite.Testcases, testcase)
		suite.Tests++
	}

	return xmlReport
}

// WriteReport write a report in JUnit format to the output writer
func WriteReport(w io.Writer, data *cwelookup.Batch) error {
	junitXMLStruct := GenerateReport(data)
	raw, err := xml.MarshalIndent(junitXMLStruct, "", "\t")
	if err != nil {
		return err
	}

	xmlHeader := []byte("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	raw = append(xmlHeader, raw...)
	_, err = w.Write(raw)
	return err
}
