// (c) Copyright 2016 Hewlett Packard Enterprise Development LP
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"fmt"
	"io"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/report/csv"
	"github.com/securego/cwelookup/report/json"
	"github.com/securego/cwelookup/report/junit"
	"github.com/securego/cwelookup/report/lines"
	"github.com/securego/cwelookup/report/text"
	"github.com/securego/cwelookup/report/yaml"
)

// Format enumerates the output format for resolved batches
type Format string

const (
	// ReportText is the default human readable format
	ReportText Format = "text"

	// ReportJSON set the output format to json
	ReportJSON Format = "json"

	// ReportYAML set the output format to yaml
	ReportYAML Format = "yaml"

	// ReportCSV set the output format to csv
	ReportCSV Format = "csv"

	// ReportJUnitXML set the output format to junit xml
	ReportJUnitXML Format = "junit-xml"

	// ReportLines prints one value per entry followed by a blank separator line,
	// the framing expected by scripts that parse the output line by line
	ReportLines Format = "lines"
)

// Formats lists the accepted report formats
func Formats() []Format {
	return []Format{ReportText, ReportJSON, ReportYAML, ReportCSV, ReportJUnitXML, ReportLines}
}

// IsValid reports whether the format is one of Formats
func IsValid(format string) bool {
	for _, f := range Formats() {
		if string(f) == format {
			return true
		}
	}
	return false
}

// CreateReport writes the batch in the given format. The formats currently
// accepted are: json, yaml, csv, junit-xml, lines and text.
func CreateReport(w io.Writer, format string, enableColor bool, data *cwelookup.Batch) error {
	if data == nil {
		return fmt.Errorf("no batch to report")
	}
	var err error
	switch Format(format) {
	case ReportJSON:
		err = json.WriteReport(w, data)
	case ReportYAML:
		err = yaml.WriteReport(w, data)
	case ReportCSV:
		err = csv.WriteReport(w, data)
	case ReportJUnitXML:
		err = junit.WriteReport(w, data)
	case ReportLines:
		err = lines.WriteReport(w, data)
	case ReportText, "":
		err = text.WriteReport(w, data, enableColor)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
	return err
}
