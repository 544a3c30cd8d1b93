package csv

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/securego/cwelookup"
)

var header = []string{"id", "key", "kind", "source", "status", "weaknesses", "error"}

// WriteReport write a report in csv format to the output writer. Multiple
// weaknesses of one identifier share a cell, separated by ";".
func WriteReport(w io.Writer, data *cwelookup.Batch) error {
	out := csv.NewWriter(w)
	if err := out.Write(header); err != nil {
		return err
	}
	for _, r := range data.Results {
		err := out.Write([]string{
			r.ID,
			r.Key,
			r.Kind.String(),
			r.Source,
			r.Status.String(),
			strings.Join(r.Weaknesses, ";"),
			r.Message,
		})
		if err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
