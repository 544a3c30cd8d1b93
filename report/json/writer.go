package json

import (
	"encoding/json"
	"io"

	"github.com/securego/cwelookup"
)

// WriteReport write a report in json format to the output writer
func WriteReport(w io.Writer, data *cwelookup.Batch) error {
	raw, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}
