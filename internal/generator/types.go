// File path: internal/generator/types.go
package generator

import (
	"encoding/json"
	"time"
)

// ProcessInfo is the declared process step the operator is programming.
type ProcessInfo struct {
	ProcessName string `json:"process_name"`
	ProcessType string `json:"process_type"`
	Notes       string `json:"notes,omitempty"`
}

// MachiningConditions carries the cutting conditions supplied alongside the
// drawing. Coolant defaults to on when the payload omits it.
type MachiningConditions struct {
	Material         string  `json:"material"`
	SpindleSpeed     int     `json:"spindle_speed"`
	FeedRate         float64 `json:"feed_rate"`
	DepthOfCut       float64 `json:"depth_of_cut"`
	Coolant          *bool   `json:"coolant,omitempty"`
	ToolNumber       string  `json:"tool_number"`
	ToolType         string  `json:"tool_type,omitempty"`
	CoordinateSystem string  `json:"coordinate_system,omitempty"`
}

func (c MachiningConditions) coolantEnabled() bool {
	return c.Coolant == nil || *c.Coolant
}

// Dimensions is the best-effort dimension map extracted from a drawing.
type Dimensions struct {
	DiameterStart float64 `json:"diameter_start,omitempty"`
	DiameterEnd   float64 `json:"diameter_end,omitempty"`
	Length        float64 `json:"length,omitempty"`
	TaperAngle    float64 `json:"taper_angle,omitempty"`
	Radius        float64 `json:"radius,omitempty"`
}

// DrawingAnalysis is the analyzer collaborator's declared output. Every
// field is best-effort; consumers must tolerate absence.
type DrawingAnalysis struct {
	ProcessType   string          `json:"process_type"`
	Features      []string        `json:"features"`
	Dimensions    Dimensions      `json:"dimensions"`
	Tolerances    json.RawMessage `json:"tolerances,omitempty"`
	SurfaceFinish string          `json:"surface_finish,omitempty"`
}

// Program is the finished pipeline output: repaired code plus everything an
// operator needs to judge how trustworthy it is.
type Program struct {
	Code              string           `json:"code"`
	ProgramNumber     string           `json:"program_number,omitempty"`
	Analysis          *DrawingAnalysis `json:"analysis,omitempty"`
	ReferencedSamples []string         `json:"referenced_samples"`
	Warnings          []string         `json:"warnings"`
	GeneratedAt       time.Time        `json:"generated_at"`
}
