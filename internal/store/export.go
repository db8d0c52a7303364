package store

import (
	"encoding/json"
	"io"

	"github.com/san-kum/aerodyn/internal/sim"
)

type ExportData struct {
	RunMetadata
	Frames []Record `json:"frames"`
}

// ExportJSON writes the run with its frames as one indented JSON
// document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	meta.Steps = result.StepsTaken
	meta.Crashed = result.Crashed
	meta.Metrics = result.Metrics

	data := ExportData{
		RunMetadata: meta,
		Frames:      make([]Record, len(result.Frames)),
	}
	for i := range result.Frames {
		data.Frames[i] = NewRecord(&result.Frames[i])
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
