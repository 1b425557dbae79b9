package report

import (
	"encoding/json"
	"io"

	"github.com/dd0wney/cluso-graphstats/pkg/pipeline"
)

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *pipeline.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Write renders r in the named format, "text" or "json".
func Write(w io.Writer, format string, r *pipeline.Report) error {
	if format == "json" {
		return WriteJSON(w, r)
	}
	return WriteText(w, r)
}
