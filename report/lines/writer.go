package lines

import (
	"fmt"
	"io"

	"github.com/securego/cwelookup"
)

// Separator is written on its own line after every value
const Separator = " "

// WriteReport writes every flattened value of the batch on its own line,
// each followed by a separator line. Identifiers missing from the snapshot
// produce no output.
func WriteReport(w io.Writer, data *cwelookup.Batch) error {
	for _, v := range data.Values() {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", v, Separator); err != nil {
			return err
		}
	}
	return nil
}
