// Package output renders alignment results, search reports and library
// summaries as tables or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// JSONTo writes data as indented JSON to the given writer
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Output writes data in the specified format
func Output(w io.Writer, format string, data interface{}) error {
	switch format {
	case FormatJSON:
		return JSONTo(w, data)
	case FormatTable, "":
		return TableTo(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// ValidFormat reports whether format is accepted by Output
func ValidFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, "":
		return true
	}
	return false
}
