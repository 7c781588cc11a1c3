package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/turretlab/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	StateColumns   []string           `json:"state_columns"`
	ControlColumns []string           `json:"control_columns"`
	Times          []float64          `json:"times"`
	States         [][]float64        `json:"states"`
	Controls       [][]float64        `json:"controls"`
}

// ExportJSON writes a run as a single JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *dynamo.Result) error {
	if result.Metrics != nil {
		meta.Metrics = result.Metrics
	}
	data := ExportData{
		RunMetadata:    meta,
		StateColumns:   StateColumns,
		ControlColumns: ControlColumns,
		Times:          result.Times,
		States:         make([][]float64, len(result.States)),
		Controls:       make([][]float64, len(result.Controls)),
	}

	for i, s := range result.States {
		data.States[i] = s
	}
	for i, c := range result.Controls {
		data.Controls[i] = c
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
