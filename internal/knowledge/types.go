// File path: internal/knowledge/types.go
package knowledge

import "errors"

// ErrNotFound reports a sample identifier with no complete stored sample.
var ErrNotFound = errors.New("sample not found")

// Canonical filter choices presented before any sample has been registered.
var (
	defaultProcessTypes = []string{"roughing", "finishing", "threading", "drilling", "grooving"}
	defaultMaterials    = []string{"SUS304", "SUS316", "S45C", "A5052", "C3604"}
)

// Metadata describes a stored NC program sample. The ID doubles as the
// storage key and is immutable once assigned.
type Metadata struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ProcessType  string   `json:"process_type"`
	Material     string   `json:"material"`
	Tags         []string `json:"tags,omitempty"`
	SpindleSpeed int      `json:"spindle_speed,omitempty"`
	FeedRate     float64  `json:"feed_rate,omitempty"`
	DepthOfCut   float64  `json:"depth_of_cut,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

// Summary is the index entry kept per sample for search and listing.
type Summary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	ProcessType string   `json:"process_type"`
	Material    string   `json:"material"`
	Tags        []string `json:"tags,omitempty"`
}

// Index is the derived, rebuildable summary of the whole sample set. It is a
// pure function of durable state: any mutation rebuilds it before the next
// read.
type Index struct {
	Version      string    `json:"version"`
	TotalSamples int       `json:"total_samples"`
	Samples      []Summary `json:"samples"`
	ProcessTypes []string  `json:"process_types"`
	Materials    []string  `json:"materials"`
}

// SampleDetail is a fully hydrated sample: metadata plus the NC code body.
type SampleDetail struct {
	Metadata   Metadata `json:"metadata"`
	Code       string   `json:"nc_code"`
	HasDrawing bool     `json:"has_drawing"`
}

func emptyIndex() *Index {
	return &Index{
		Version:      indexVersion,
		Samples:      []Summary{},
		ProcessTypes: append([]string(nil), defaultProcessTypes...),
		Materials:    append([]string(nil), defaultMaterials...),
	}
}
